package bot

import (
	"context"
	"math/rand"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
)

// ctxCheckInterval is how many nodes pass between context polls
const ctxCheckInterval = 1024

// SearchStats counts the work done by one search
type SearchStats struct {
	Nodes           int64
	Evaluations     int64
	TableHits       int64
	Cutoffs         int64
	DecisiveCutoffs int64
	PathCacheHits   int64
}

// SearchContext carries the state of a single GetBestMove call. It is never
// shared between calls; only the transposition table outlives it.
type SearchContext struct {
	ctx        context.Context
	settings   Settings
	table      *TranspositionTable
	zobrist    *zobristTable
	rng        *rand.Rand
	botID      int
	botSeat    int
	difficulty core.Difficulty

	// wallAllowance is the per-player wall budget used by the efficiency term
	wallAllowance int
	pathCache     map[pathKey]int
	stats         SearchStats
	aborted       bool
}

type pathKey struct {
	walls uint64
	seat  int
	cell  int
}

func newSearchContext(ctx context.Context, e *Engine, gs *core.GameState, botSeat int, difficulty core.Difficulty, rng *rand.Rand) *SearchContext {
	sc := &SearchContext{
		ctx:        ctx,
		settings:   e.settings,
		zobrist:    getZobrist(gs.BoardSize),
		rng:        rng,
		botID:      gs.Players[botSeat].ID,
		botSeat:    botSeat,
		difficulty: difficulty,
		pathCache:  make(map[pathKey]int, 4096),
	}
	if difficulty == core.Hard {
		sc.table = e.table
	}
	sc.wallAllowance = max(core.DefaultWallsPerPlayer(len(gs.Players)), gs.Players[botSeat].WallsRemaining)
	return sc
}

// key is gs's transposition table key for this search
func (sc *SearchContext) key(gs *core.GameState) uint64 {
	return sc.zobrist.hash(gs, sc.botSeat, sc.wallAllowance)
}

// stopped polls the context every ctxCheckInterval nodes and latches cancellation
func (sc *SearchContext) stopped() bool {
	if sc.aborted {
		return true
	}
	if sc.stats.Nodes%ctxCheckInterval == 0 && sc.ctx.Err() != nil {
		sc.aborted = true
	}
	return sc.aborted
}

// pathFrom returns the seat's distance to goal from cell, cached per wall layout.
// Unreachable goals report UnreachablePath.
func (sc *SearchContext) pathFrom(gs *core.GameState, mask *core.EdgeMask, wallsHash uint64, seat int, cell core.Position) int {
	key := pathKey{walls: wallsHash, seat: seat, cell: cell.Index(gs.BoardSize)}
	if n, ok := sc.pathCache[key]; ok {
		sc.stats.PathCacheHits++
		return n
	}
	n := rules.PathLengthFrom(mask, &gs.Players[seat], cell)
	if n == rules.NoPath {
		n = sc.settings.UnreachablePath
	}
	sc.pathCache[key] = n
	return n
}

// pathLengths returns every seat's current distance to goal
func (sc *SearchContext) pathLengths(gs *core.GameState, mask *core.EdgeMask) [maxSeats]int {
	var out [maxSeats]int
	wh := sc.zobrist.wallsHash(gs.Walls)
	for i := range gs.Players {
		if i >= maxSeats {
			break
		}
		out[i] = sc.pathFrom(gs, mask, wh, i, gs.Players[i].Pos)
	}
	return out
}

// primaryRival picks the seat other than self with the shortest path. Ties go to the lower seat.
func primaryRival(gs *core.GameState, self int, paths [maxSeats]int) int {
	rival := -1
	for i := range gs.Players {
		if i == self || i >= maxSeats {
			continue
		}
		if rival < 0 || paths[i] < paths[rival] {
			rival = i
		}
	}
	return rival
}
