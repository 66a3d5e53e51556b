package messages

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/authpanel/internal/api"
)

// Data messages.
type (
	// ResultMsg carries the outcome of one auth operation back to the
	// event loop.
	ResultMsg struct {
		Op      api.Operation
		Result  api.Result
		Elapsed time.Duration
	}

	// NavigateMsg asks the app to switch to the named panel.
	NavigateMsg struct {
		Panel string
	}
)

// Perform runs an auth operation off the event loop and reports it as a
// ResultMsg. A panic inside fn is reported as a failure, so every trigger
// ends in a visible status.
func Perform(op api.Operation, fn func(context.Context) api.Result) tea.Cmd {
	return func() (msg tea.Msg) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				msg = ResultMsg{
					Op:      op,
					Result:  api.Failure(0, fmt.Errorf("%s: %v", op, r)),
					Elapsed: time.Since(start),
				}
			}
		}()
		return ResultMsg{Op: op, Result: fn(context.Background()), Elapsed: time.Since(start)}
	}
}

// RedirectAfter waits d, then asks the app to show panel.
func RedirectAfter(d time.Duration, panel string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return NavigateMsg{Panel: panel}
	})
}
