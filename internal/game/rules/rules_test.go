package rules

import (
	"errors"
	"testing"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, size int) *core.GameState {
	t.Helper()
	gs, err := core.TwoPlayerGame(size, false, core.Medium)
	require.NoError(t, err)
	return gs
}

func pos(r, c int) core.Position { return core.NewPosition(r, c) }

func TestShortestPathLength_Symmetry(t *testing.T) {
	gs := newGame(t, 9)
	assert.Equal(t, 8, ShortestPathLength(gs, 0))
	assert.Equal(t, 8, ShortestPathLength(gs, 1))

	path := ShortestPath(gs, 0)
	require.Len(t, path, 9)
	assert.Equal(t, pos(8, 4), path[0])
	assert.Equal(t, 0, path[8].Row)
	for i := 1; i < len(path); i++ {
		assert.True(t, path[i-1].IsAdjacentTo(path[i]))
	}
}

func TestShortestPathLength_Detour(t *testing.T) {
	gs := newGame(t, 9)
	gs.Walls = []core.Wall{core.HorizontalWall(8, 3)}
	// (8,4) cannot step up; sidestep to col 5 costs one extra move.
	assert.Equal(t, 9, ShortestPathLength(gs, 0))
	assert.Equal(t, NoPath, ShortestPathLength(gs, 42))
	assert.Nil(t, ShortestPath(gs, 42))
}

func TestInitialPawnMoves(t *testing.T) {
	gs := newGame(t, 9)
	assert.ElementsMatch(t, []core.Position{pos(7, 4), pos(8, 3), pos(8, 5)}, ValidPawnMoves(gs, 0))
	assert.ElementsMatch(t, []core.Position{pos(1, 4), pos(0, 3), pos(0, 5)}, ValidPawnMoves(gs, 1))
}

func TestJumpRule(t *testing.T) {
	gs := newGame(t, 9)
	gs.Players[0].Pos = pos(4, 4)
	gs.Players[1].Pos = pos(3, 4)

	moves := ValidPawnMoves(gs, 0)
	assert.Contains(t, moves, pos(2, 4))
	assert.NotContains(t, moves, pos(3, 4))
	assert.NotContains(t, moves, pos(3, 3))
	assert.NotContains(t, moves, pos(3, 5))

	t.Run("wall behind opponent allows diagonals", func(t *testing.T) {
		gs := gs.Clone()
		gs.Walls = []core.Wall{core.HorizontalWall(3, 4)}
		moves := ValidPawnMoves(gs, 0)
		assert.NotContains(t, moves, pos(2, 4))
		assert.Contains(t, moves, pos(3, 3))
		assert.Contains(t, moves, pos(3, 5))
	})

	t.Run("board edge behind opponent allows diagonals", func(t *testing.T) {
		gs := gs.Clone()
		gs.Players[0].Pos = pos(1, 4)
		gs.Players[1].Pos = pos(0, 4)
		moves := ValidPawnMoves(gs, 0)
		assert.Contains(t, moves, pos(0, 3))
		assert.Contains(t, moves, pos(0, 5))
	})

	t.Run("wall between pawns blocks the jump", func(t *testing.T) {
		gs := gs.Clone()
		gs.Walls = []core.Wall{core.HorizontalWall(4, 4)}
		moves := ValidPawnMoves(gs, 0)
		assert.NotContains(t, moves, pos(2, 4))
		assert.NotContains(t, moves, pos(3, 4))
		assert.NotContains(t, moves, pos(3, 3))
	})

	t.Run("diagonal blocked by wall beside opponent", func(t *testing.T) {
		gs := gs.Clone()
		gs.Walls = []core.Wall{core.HorizontalWall(3, 4), core.VerticalWall(2, 4)}
		moves := ValidPawnMoves(gs, 0)
		assert.NotContains(t, moves, pos(3, 3))
		assert.Contains(t, moves, pos(3, 5))
	})
}

func TestValidatePawnMove_Reasons(t *testing.T) {
	gs := newGame(t, 9)
	gs.Players[1].Pos = pos(7, 4)

	err := ValidatePawnMove(gs, 0, pos(7, 4))
	assert.True(t, errors.Is(err, core.ErrIllegalMove))
	assert.Equal(t, ReasonOccupied, core.Reason(err))

	err = ValidatePawnMove(gs, 0, pos(9, 4))
	assert.Equal(t, ReasonOffBoard, core.Reason(err))

	err = ValidatePawnMove(gs, 0, pos(5, 4))
	assert.Equal(t, ReasonPawnNotAllowed, core.Reason(err))

	assert.True(t, IsValidPawnMove(gs, 0, pos(6, 4)))
	assert.True(t, errors.Is(ValidatePawnMove(gs, 5, pos(6, 4)), core.ErrInvalidPlayer))
}

func TestValidateWallPlacement(t *testing.T) {
	gs := newGame(t, 9)
	gs.Walls = []core.Wall{core.HorizontalWall(3, 3)}

	tests := []struct {
		name   string
		wall   core.Wall
		reason string
	}{
		{"out of bounds", core.HorizontalWall(0, 3), ReasonWallOutOfBounds},
		{"overlap", core.HorizontalWall(3, 4), ReasonWallConflict},
		{"crossing", core.VerticalWall(2, 4), ReasonWallConflict},
		{"legal", core.VerticalWall(5, 5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWallPlacement(gs, 0, tt.wall)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrIllegalMove))
			assert.Equal(t, tt.reason, core.Reason(err))
		})
	}

	gs.Players[0].WallsRemaining = 0
	assert.Equal(t, ReasonNoWallsLeft, core.Reason(ValidateWallPlacement(gs, 0, core.VerticalWall(5, 5))))
}

func TestWallRejectedWhenItSealsAPlayer(t *testing.T) {
	gs := newGame(t, 9)
	gs.Players[1].Pos = pos(0, 0)
	gs.Walls = []core.Wall{core.HorizontalWall(1, 0)}
	before := gs.Clone()

	err := ValidateWallPlacement(gs, 0, core.VerticalWall(0, 2))
	require.Error(t, err)
	assert.Equal(t, ReasonWallBlocksPath, core.Reason(err))
	assert.Equal(t, before, gs, "validation must not mutate the state")

	_, err = ApplyMove(gs, core.NewWallMove(0, core.VerticalWall(0, 2)))
	assert.True(t, errors.Is(err, core.ErrIllegalMove))
	assert.Equal(t, before, gs)
}

func TestConnectivityInvariantUnderRandomWalls(t *testing.T) {
	rng := testutil.NewTestRNG(42)
	for _, size := range []int{7, 9} {
		gs := newGame(t, size)
		gs.Players[0].WallsRemaining = 100
		gs.Players[1].WallsRemaining = 100

		for i := 0; i < 400; i++ {
			o := core.Horizontal
			if rng.Intn(2) == 1 {
				o = core.Vertical
			}
			w := core.NewWall(rng.Intn(size), rng.Intn(size), o)
			mover := gs.CurrentPlayer().ID
			next, err := ApplyMove(gs, core.NewWallMove(mover, w))
			if err != nil {
				assert.True(t, errors.Is(err, core.ErrIllegalMove))
				continue
			}
			gs = next
			for _, p := range gs.Players {
				require.True(t, HasPathToGoal(gs, p.ID), "player %d sealed after %s", p.ID, w)
			}
		}
		assert.NotEmpty(t, gs.Walls)
		assert.NoError(t, gs.Validate())
	}
}

func TestValidWallPlacements(t *testing.T) {
	gs := newGame(t, 7)
	// 6 rows x 6 cols of anchors per orientation on an empty 7x7 board
	assert.Len(t, ValidWallPlacements(gs, 0), 72)

	gs.Walls = []core.Wall{core.HorizontalWall(3, 3)}
	walls := ValidWallPlacements(gs, 0)
	assert.NotContains(t, walls, core.HorizontalWall(3, 2))
	assert.NotContains(t, walls, core.HorizontalWall(3, 3))
	assert.NotContains(t, walls, core.HorizontalWall(3, 4))
	assert.NotContains(t, walls, core.VerticalWall(2, 4))
	assert.Len(t, walls, 68)
}

func TestLegalMoves(t *testing.T) {
	gs := newGame(t, 9)
	moves := LegalMoves(gs, 0)
	assert.Len(t, moves, 3+128)
	assert.Empty(t, LegalMoves(gs, 1), "not player 1's turn")

	notes := LegalMoveNotations(gs, 0)
	assert.Contains(t, notes, "e8")
	assert.Contains(t, notes, "a2h")
}
