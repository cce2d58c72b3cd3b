package bot

import (
	"math"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
)

type rootResult struct {
	move     core.Move
	score    float64
	hasMove  bool
	complete bool
}

// iterate runs iterative deepening up to maxDepth and returns the result of
// the deepest depth that finished, plus that depth.
func (sc *SearchContext) iterate(gs *core.GameState, maxDepth int) (rootResult, int) {
	var best rootResult
	completed := 0
	for depth := 1; depth <= maxDepth; depth++ {
		r := sc.searchRoot(gs, depth)
		if !r.complete {
			if !best.hasMove && r.hasMove {
				best = r
			}
			break
		}
		best = r
		completed = depth
		if r.score >= sc.settings.WinScore-sc.settings.NearWinMargin {
			break
		}
	}
	return best, completed
}

// searchRoot searches every root move at a fixed depth. The bot is always the
// side to move at the root.
func (sc *SearchContext) searchRoot(gs *core.GameState, depth int) rootResult {
	mask := gs.EdgeMask()
	paths := sc.pathLengths(gs, &mask)

	var key uint64
	var tableMove *core.Move
	if sc.table != nil {
		key = sc.key(gs)
		if e, ok := sc.table.Probe(key); ok && e.HasMove {
			m := e.BestMove
			tableMove = &m
		}
	}

	moves := sc.orderedMoves(gs, &mask, paths, tableMove)
	res := rootResult{score: math.Inf(-1)}
	alpha, beta := math.Inf(-1), math.Inf(1)
	nearWin := sc.settings.WinScore - sc.settings.NearWinMargin
	bound := BoundExact

	for _, m := range moves {
		if sc.ctx.Err() != nil {
			sc.aborted = true
		}
		if sc.aborted {
			return res
		}
		child := rules.ApplySearchMove(gs, m)
		v := sc.minimax(child, depth-1, alpha, beta)
		if sc.aborted {
			return res
		}
		if !res.hasMove || v > res.score {
			res.move, res.score, res.hasMove = m, v, true
		}
		alpha = math.Max(alpha, v)
		// Only a near-certain win ends the root loop early.
		if v >= nearWin {
			bound = BoundLower
			break
		}
	}

	res.complete = true
	if sc.table != nil && res.hasMove {
		sc.table.Store(key, depth, res.score, bound, res.move, true)
	}
	return res
}

// minimax is a paranoid alpha-beta search: the bot maximises, every other seat minimises.
func (sc *SearchContext) minimax(gs *core.GameState, depth int, alpha, beta float64) float64 {
	sc.stats.Nodes++
	if sc.stopped() {
		return 0
	}
	if gs.Status == core.StatusFinished || depth <= 0 {
		return sc.evaluate(gs)
	}

	var key uint64
	var tableMove *core.Move
	if sc.table != nil {
		key = sc.key(gs)
		if e, ok := sc.table.Probe(key); ok {
			if e.Depth >= depth {
				switch e.Bound {
				case BoundExact:
					sc.stats.TableHits++
					return e.Score
				case BoundLower:
					alpha = math.Max(alpha, e.Score)
				case BoundUpper:
					beta = math.Min(beta, e.Score)
				}
				if alpha >= beta {
					sc.stats.TableHits++
					return e.Score
				}
			}
			if e.HasMove {
				m := e.BestMove
				tableMove = &m
			}
		}
	}

	mask := gs.EdgeMask()
	paths := sc.pathLengths(gs, &mask)
	moves := sc.orderedMoves(gs, &mask, paths, tableMove)
	if len(moves) == 0 {
		return sc.evaluate(gs)
	}

	maximizing := gs.CurrentPlayerIndex == sc.botSeat
	alphaOrig, betaOrig := alpha, beta
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	var bestMove core.Move
	decisive := false

	for _, m := range moves {
		child := rules.ApplySearchMove(gs, m)
		v := sc.minimax(child, depth-1, alpha, beta)
		if sc.aborted {
			return 0
		}
		if maximizing {
			if v > best {
				best, bestMove = v, m
			}
			alpha = math.Max(alpha, v)
		} else {
			if v < best {
				best, bestMove = v, m
			}
			beta = math.Min(beta, v)
		}
		if alpha >= beta {
			sc.stats.Cutoffs++
			break
		}
		if sc.isDecisive(v, maximizing) {
			sc.stats.DecisiveCutoffs++
			decisive = true
			break
		}
	}

	if sc.table != nil {
		bound := BoundExact
		switch {
		case best <= alphaOrig:
			bound = BoundUpper
		case best >= betaOrig:
			bound = BoundLower
		case decisive && maximizing:
			bound = BoundLower
		case decisive:
			bound = BoundUpper
		}
		sc.table.Store(key, depth, best, bound, bestMove, true)
	}
	return best
}

// isDecisive reports a Hard-mode early exit: the child is already clearly
// good for the side choosing at this node. The check is one-sided on purpose;
// a score that is clearly bad for the chooser never ends the loop.
func (sc *SearchContext) isDecisive(v float64, maximizing bool) bool {
	if sc.difficulty != core.Hard {
		return false
	}
	if maximizing {
		return v > sc.settings.DecisiveThreshold
	}
	return v < -sc.settings.DecisiveThreshold
}
