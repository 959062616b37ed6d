//go:build unix

package bootstrap

import (
	"context"
	stderrors "errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTask_SignalCancelsTask(t *testing.T) {
	app, err := NewApp(newTestConfig("svc"),
		WithLogger(quietLogger()),
		WithSignals(syscall.SIGUSR1),
	)
	require.NoError(t, err)

	err = app.RunTask(context.Background(), func(ctx context.Context) error {
		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return stderrors.New("not canceled")
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
}
