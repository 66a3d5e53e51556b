// Package cmd contains the authpanel command line.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fragmede/authpanel/internal/api"
	"github.com/fragmede/authpanel/internal/config"
	"github.com/fragmede/authpanel/internal/history"
	"github.com/fragmede/authpanel/internal/logger"
	"github.com/fragmede/authpanel/internal/ui"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "authpanel",
	Short: "Terminal client for a session-based auth service",
	Long: `authpanel signs up, logs in, shows the current session and logs out
against an HTTP auth service, one panel per configured surface.

Example usage:
  authpanel --base-url http://localhost:8080
  authpanel --surfaces login,me,logout
  AUTHPANEL_REDIRECT_AFTER=1s AUTHPANEL_REDIRECT_TO=session authpanel`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the CLI and sent as the
// client's User-Agent.
func SetVersion(v string) {
	version = v
	api.UserAgent = "authpanel/" + v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or <user config dir>/authpanel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().String("base-url", "", "auth service root URL")
	rootCmd.Flags().StringSlice("surfaces", nil, "surfaces to show: signup, login, me, logout")
	rootCmd.Flags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := openHistory(cfg.HistoryPath)
	if err != nil {
		log.Warn().Err(err).Msg("activity log unavailable")
		db = nil
	}
	defer db.Close()

	client := api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log.With().Str("component", "api").Logger()),
	)

	app := ui.NewApp(cfg, client, db, log.With().Str("component", "ui").Logger())
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func openLog(cfg config.Log) (zerolog.Logger, func(), error) {
	if cfg.Path == "" {
		return logger.Init(cfg.Level, io.Discard), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	return logger.Init(cfg.Level, f), func() { f.Close() }, nil
}

func openHistory(path string) (*history.DB, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return history.Open(path)
}
