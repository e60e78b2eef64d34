package mock_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fwojciec/mend"
	"github.com/fwojciec/mend/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_CreateSession(t *testing.T) {
	t.Parallel()
	t.Run("delegates to CreateSessionFn", func(t *testing.T) {
		t.Parallel()
		g := mock.Generator{
			CreateSessionFn: func(ctx context.Context) (string, error) {
				return "ses_123", nil
			},
		}
		got, err := g.CreateSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ses_123", got)
	})

	t.Run("panics when CreateSessionFn not set", func(t *testing.T) {
		t.Parallel()
		g := mock.Generator{}
		assert.Panics(t, func() {
			_, _ = g.CreateSession(context.Background())
		})
	})
}

func TestGenerator_Send(t *testing.T) {
	t.Parallel()
	t.Run("delegates to SendFn", func(t *testing.T) {
		t.Parallel()
		want := []mend.Part{mend.TextPart{Text: "fixed"}}
		g := mock.Generator{
			SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
				assert.Equal(t, "ses_123", sessionID)
				assert.Equal(t, "fix it", prompt.Text)
				return want, nil
			},
		}
		got, err := g.Send(context.Background(), "ses_123", mend.Prompt{Text: "fix it"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		g := mock.Generator{
			SendFn: func(ctx context.Context, sessionID string, prompt mend.Prompt) ([]mend.Part, error) {
				return nil, wantErr
			},
		}
		_, err := g.Send(context.Background(), "ses_123", mend.Prompt{})
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestGenerator_Events(t *testing.T) {
	t.Parallel()
	t.Run("delegates to EventsFn", func(t *testing.T) {
		t.Parallel()
		var f mock.Feed
		g := mock.Generator{
			EventsFn: func(ctx context.Context) (mend.Feed, error) {
				return &f, nil
			},
		}
		got, err := g.Events(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &f, got)
	})

	t.Run("reports failed subscription when EventsFn not set", func(t *testing.T) {
		t.Parallel()
		g := mock.Generator{}
		_, err := g.Events(context.Background())
		assert.ErrorIs(t, err, mend.ErrFeedClosed)
	})
}

func TestFeed_Next(t *testing.T) {
	t.Parallel()
	t.Run("delegates to NextFn", func(t *testing.T) {
		t.Parallel()
		want := mend.TextEvent{SessionID: "ses_123", Text: "hello"}
		f := mock.Feed{
			NextFn: func() (mend.Event, error) {
				return want, nil
			},
		}
		got, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("returns EOF", func(t *testing.T) {
		t.Parallel()
		f := mock.Feed{
			NextFn: func() (mend.Event, error) {
				return nil, io.EOF
			},
		}
		_, err := f.Next()
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestFeed_Close(t *testing.T) {
	t.Parallel()
	t.Run("delegates to CloseFn", func(t *testing.T) {
		t.Parallel()
		called := false
		f := mock.Feed{
			CloseFn: func() error {
				called = true
				return nil
			},
		}
		require.NoError(t, f.Close())
		assert.True(t, called)
	})

	t.Run("returns nil when CloseFn not set", func(t *testing.T) {
		t.Parallel()
		var f mock.Feed
		assert.NoError(t, f.Close())
	})
}

func TestCompiler_Run(t *testing.T) {
	t.Parallel()
	t.Run("delegates to RunFn", func(t *testing.T) {
		t.Parallel()
		c := mock.Compiler{
			RunFn: func(ctx context.Context, target string) (string, error) {
				assert.Equal(t, "/src/Program.cs", target)
				return "Build succeeded.", nil
			},
		}
		out, err := c.Run(context.Background(), "/src/Program.cs")
		require.NoError(t, err)
		assert.Equal(t, "Build succeeded.", out)
	})

	t.Run("panics when RunFn not set", func(t *testing.T) {
		t.Parallel()
		c := mock.Compiler{}
		assert.Panics(t, func() {
			_, _ = c.Run(context.Background(), "/src/Program.cs")
		})
	})
}
