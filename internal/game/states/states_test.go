package states

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStateImplementations(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("InitializingState", func(t *testing.T) {
		state := NewInitializingState()
		ctx := NewGameContext("test", 2, 9, logger)

		assert.Equal(t, PhaseInitializing, state.Phase())
		assert.NoError(t, state.Enter(ctx))
		assert.NoError(t, state.Exit(ctx))
		assert.NoError(t, state.Validate(ctx))
	})

	t.Run("PlayingState", func(t *testing.T) {
		state := NewPlayingState()
		ctx := NewGameContext("test", 1, 9, logger)

		assert.Equal(t, PhasePlaying, state.Phase())

		err := state.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "need 2 to 4")

		ctx.PlayerCount = 2
		ctx.BoardSize = 8
		err = state.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported board size 8")

		ctx.BoardSize = 11
		assert.NoError(t, state.Validate(ctx))

		assert.True(t, ctx.StartTime.IsZero())
		assert.NoError(t, state.Enter(ctx))
		assert.False(t, ctx.StartTime.IsZero())
		assert.NoError(t, state.Exit(ctx))
	})

	t.Run("FinishedState", func(t *testing.T) {
		state := NewFinishedState()
		ctx := NewGameContext("test", 2, 9, logger)

		assert.Equal(t, PhaseFinished, state.Phase())
		assert.Error(t, state.Validate(ctx), "no winner yet")

		ctx.Winner = 1
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		assert.False(t, ctx.EndTime.IsZero())
	})

	t.Run("ErrorState", func(t *testing.T) {
		state := NewErrorState()
		ctx := NewGameContext("test", 2, 9, logger)
		ctx.Error = errors.New("boom")

		assert.Equal(t, PhaseError, state.Phase())
		assert.NoError(t, state.Validate(ctx))
		assert.NoError(t, state.Enter(ctx))
		assert.NoError(t, state.Exit(ctx))
	})

	t.Run("ResetState", func(t *testing.T) {
		state := NewResetState()
		ctx := NewGameContext("test", 2, 9, logger)
		ctx.Winner = 0
		ctx.Error = errors.New("boom")
		assert.NoError(t, NewPlayingState().Enter(ctx))

		assert.NoError(t, state.Enter(ctx))
		assert.Equal(t, -1, ctx.Winner)
		assert.Nil(t, ctx.Error)
		assert.True(t, ctx.StartTime.IsZero())
		assert.Zero(t, ctx.GetElapsedTime())
	})
}
