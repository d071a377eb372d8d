package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("await returns result", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})

		got, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("await surfaces the function error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		f := async.Async(context.Background(), "x", func(_ context.Context, _ string) (string, error) {
			return "", wantErr
		})

		_, err := f.Await()
		require.ErrorIs(t, err, wantErr)
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Async(ctx, 0, func(_ context.Context, _ int) (int, error) {
			called = true
			return 1, nil
		})

		_, err := f.Await()
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("await with timeout", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
			time.Sleep(time.Second)
			return 1, nil
		})

		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		require.ErrorIs(t, err, async.ErrTimeout)
	})

	t.Run("is complete", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		f := async.Async(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
			close(started)
			<-release
			return 1, nil
		})

		<-started
		assert.False(t, f.IsComplete())

		close(release)
		_, err := f.Await()
		require.NoError(t, err)
		assert.True(t, f.IsComplete())
	})
}
