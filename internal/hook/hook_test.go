package hook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/labelmap/internal/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) hook.RunnerFunc {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, call{name: name, args: args})
		return err
	}
}

func TestHook_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("appends the path to the command line", func(t *testing.T) {
		var calls []call
		h := hook.New("tile", "tile-map --zoom 4", recorder(&calls, nil), logger)

		require.True(t, h.Enabled())
		require.NoError(t, h.Run(context.Background(), "build/map.svg"))

		require.Len(t, calls, 1)
		assert.Equal(t, "tile-map", calls[0].name)
		assert.Equal(t, []string{"--zoom", "4", "build/map.svg"}, calls[0].args)
	})

	t.Run("empty command does nothing", func(t *testing.T) {
		var calls []call
		h := hook.New("open", "  ", recorder(&calls, nil), logger)

		assert.False(t, h.Enabled())
		require.NoError(t, h.Run(context.Background(), "map.svg"))
		assert.Empty(t, calls)
	})

	t.Run("runner error is wrapped", func(t *testing.T) {
		var calls []call
		errRun := errors.New("exit status 1")
		h := hook.New("open", "xdg-open", recorder(&calls, errRun), logger)

		err := h.Run(context.Background(), "map.svg")
		require.ErrorIs(t, err, errRun)
		assert.Contains(t, err.Error(), "open hook")
	})
}

func TestExecRunner(t *testing.T) {
	err := hook.ExecRunner{}.Run(context.Background(), "labelmap-command-that-does-not-exist")
	assert.Error(t, err)
}
