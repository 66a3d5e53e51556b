package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Surfaces a panel can expose. A trigger is wired only when its surface is listed.
const (
	SurfaceSignup = "signup"
	SurfaceLogin  = "login"
	SurfaceMe     = "me"
	SurfaceLogout = "logout"
)

var knownSurfaces = []string{SurfaceSignup, SurfaceLogin, SurfaceMe, SurfaceLogout}

type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Surfaces       []string      `mapstructure:"surfaces"`
	Redirect       Redirect      `mapstructure:"redirect"`
	DataDir        string        `mapstructure:"data_dir"`
	HistoryPath    string        `mapstructure:"history_path"`
	Log            Log           `mapstructure:"log"`
}

// Redirect switches to another panel a while after a login or signup succeeds.
// It is off when After is zero.
type Redirect struct {
	After time.Duration `mapstructure:"after"`
	To    string        `mapstructure:"to"`
}

type Log struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func Default() Config {
	dataDir := filepath.Join(userConfigDir(), "authpanel")
	return Config{
		BaseURL:     "http://localhost:8080",
		Surfaces:    slices.Clone(knownSurfaces),
		DataDir:     dataDir,
		HistoryPath: filepath.Join(dataDir, "history.db"),
		Log: Log{
			Path:  filepath.Join(dataDir, "debug.log"),
			Level: "info",
		},
	}
}

// Load merges defaults, the config file, AUTHPANEL_* environment variables
// and any bound command-line flags, in increasing priority. An empty cfgFile
// searches the working directory and the user config directory for
// config.yaml; a missing file is not an error.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("surfaces", def.Surfaces)
	v.SetDefault("redirect.after", def.Redirect.After)
	v.SetDefault("redirect.to", def.Redirect.To)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("AUTHPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No defaults for these: when unset they follow data_dir, and an
	// explicit empty value disables them.
	for _, key := range []string{"history_path", "log.path"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("binding env %s: %w", key, err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"base_url":  "base-url",
			"surfaces":  "surfaces",
			"log.level": "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(def.DataDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if !v.IsSet("history_path") {
		cfg.HistoryPath = filepath.Join(cfg.DataDir, "history.db")
	}
	if !v.IsSet("log.path") {
		cfg.Log.Path = filepath.Join(cfg.DataDir, "debug.log")
	}
	cfg.Surfaces = normalizeSurfaces(cfg.Surfaces)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the base URL, surface names and durations.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: need http(s)://host", c.BaseURL)
	}
	for _, s := range c.Surfaces {
		if !slices.Contains(knownSurfaces, s) {
			return fmt.Errorf("unknown surface %q (known: %s)", s, strings.Join(knownSurfaces, ", "))
		}
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.Redirect.After < 0 {
		return fmt.Errorf("redirect.after must not be negative")
	}
	return nil
}

// Has reports whether a surface is present.
func (c Config) Has(surface string) bool {
	return slices.Contains(c.Surfaces, surface)
}

// normalizeSurfaces accepts both list and comma-separated forms, as env
// variables and flags deliver the latter.
func normalizeSurfaces(in []string) []string {
	out := []string{}
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
