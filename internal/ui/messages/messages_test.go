package messages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/authpanel/internal/api"
)

func TestPerform(t *testing.T) {
	cmd := Perform(api.OpMe, func(ctx context.Context) api.Result {
		require.NotNil(t, ctx)
		return api.Success(200, map[string]any{"email": "a@x.com"})
	})

	msg, ok := cmd().(ResultMsg)

	require.True(t, ok)
	assert.Equal(t, api.OpMe, msg.Op)
	assert.True(t, msg.Result.OK())
	assert.GreaterOrEqual(t, msg.Elapsed, time.Duration(0))
}

func TestPerformRecoversPanics(t *testing.T) {
	cmd := Perform(api.OpLogout, func(context.Context) api.Result {
		panic("boom")
	})

	msg, ok := cmd().(ResultMsg)

	require.True(t, ok)
	assert.Equal(t, api.OpLogout, msg.Op)
	assert.False(t, msg.Result.OK())
	assert.Equal(t, "logout: boom", msg.Result.Message())
}

func TestRedirectAfter(t *testing.T) {
	start := time.Now()

	msg := RedirectAfter(15*time.Millisecond, "session")()

	assert.Equal(t, NavigateMsg{Panel: "session"}, msg)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}
