package bot

import (
	"sort"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
)

// orderedMoves generates the side to move's candidates: the table move first,
// then pawn moves by resulting path length, then strategic walls.
func (sc *SearchContext) orderedMoves(gs *core.GameState, mask *core.EdgeMask, paths [maxSeats]int, tableMove *core.Move) []core.Move {
	seat := gs.CurrentPlayerIndex
	mover := &gs.Players[seat]
	wh := sc.zobrist.wallsHash(gs.Walls)

	dests := rules.PawnMoves(gs, mask, mover.Pos)
	type scored struct {
		move core.Move
		path int
	}
	pawns := make([]scored, 0, len(dests))
	for _, to := range dests {
		pawns = append(pawns, scored{
			move: core.Move{Kind: core.PawnMove, PlayerID: mover.ID, From: mover.Pos, To: to},
			path: sc.pathFrom(gs, mask, wh, seat, to),
		})
	}
	sort.SliceStable(pawns, func(i, j int) bool { return pawns[i].path < pawns[j].path })

	moves := make([]core.Move, 0, len(pawns)+sc.settings.MaxWallCandidates)
	for _, p := range pawns {
		moves = append(moves, p.move)
	}
	if sc.considerWalls(mover) {
		for _, w := range sc.strategicWalls(gs, mask, paths, seat) {
			moves = append(moves, core.Move{Kind: core.WallMove, PlayerID: mover.ID, Wall: w})
		}
	}

	if tableMove != nil {
		for i := range moves {
			if moves[i].SameAction(*tableMove) {
				if i > 0 {
					m := moves[i]
					copy(moves[1:i+1], moves[:i])
					moves[0] = m
				}
				break
			}
		}
	}
	return moves
}

// considerWalls decides whether walls are generated at this node. Easy bots
// mostly skip them.
func (sc *SearchContext) considerWalls(mover *core.Player) bool {
	if mover.WallsRemaining <= 0 || sc.settings.MaxWallCandidates == 0 {
		return false
	}
	if sc.difficulty == core.Easy && sc.rng.Float64() < sc.settings.EasySkipWallsProbability {
		return false
	}
	return true
}

// strategicWalls proposes walls that strictly lengthen the primary rival's
// shortest path, at most MaxWallCandidates of them, largest gain first.
func (sc *SearchContext) strategicWalls(gs *core.GameState, mask *core.EdgeMask, paths [maxSeats]int, seat int) []core.Wall {
	target := primaryRival(gs, seat, paths)
	if target < 0 {
		return nil
	}
	targetPlayer := &gs.Players[target]
	before := paths[target]

	seen := make(map[core.Wall]bool, 64)
	type gain struct {
		wall  core.Wall
		added int
	}
	accepted := make([]gain, 0, sc.settings.MaxWallCandidates)

	consider := func(w core.Wall) bool {
		if len(accepted) >= sc.settings.MaxWallCandidates {
			return false
		}
		if seen[w] {
			return true
		}
		seen[w] = true
		if !core.WallInBounds(w, gs.BoardSize) || core.ConflictsWithAny(w, gs.Walls) {
			return true
		}
		tentative := *mask
		tentative.Add(w)
		after := 0
		for i := range gs.Players {
			n := rules.PathLength(&tentative, &gs.Players[i])
			if n == rules.NoPath {
				return true
			}
			if i == target {
				after = n
			}
		}
		if after > before {
			accepted = append(accepted, gain{wall: w, added: after - before})
		}
		return true
	}

	func() {
		// Walls across the edges of the rival's shortest path.
		path := rules.PathFor(mask, targetPlayer)
		for i := 1; i < len(path); i++ {
			for _, w := range blockingWalls(path[i-1], path[i]) {
				if !consider(w) {
					return
				}
			}
		}

		// Extensions of walls already on the board.
		if sc.difficulty != core.Easy {
			for _, placed := range gs.Walls {
				for _, w := range extendingWalls(placed) {
					if !consider(w) {
						return
					}
				}
			}
		}

		// Boxes around the rival's pawn.
		if sc.difficulty == core.Hard {
			p := targetPlayer.Pos
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					for _, o := range [2]core.Orientation{core.Horizontal, core.Vertical} {
						if !consider(core.NewWall(p.Row+dr, p.Col+dc, o)) {
							return
						}
					}
				}
			}
		}
	}()

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].added > accepted[j].added })
	out := make([]core.Wall, len(accepted))
	for i, g := range accepted {
		out[i] = g.wall
	}
	return out
}

// blockingWalls returns the two anchors whose wall covers the edge from -> to
func blockingWalls(from, to core.Position) [2]core.Wall {
	if from.Col == to.Col {
		r := max(from.Row, to.Row)
		return [2]core.Wall{core.HorizontalWall(r, from.Col), core.HorizontalWall(r, from.Col-1)}
	}
	c := max(from.Col, to.Col)
	return [2]core.Wall{core.VerticalWall(from.Row, c), core.VerticalWall(from.Row-1, c)}
}

// extendingWalls continues a wall's line on either end
func extendingWalls(w core.Wall) [2]core.Wall {
	if w.Orientation == core.Horizontal {
		return [2]core.Wall{core.HorizontalWall(w.Pos.Row, w.Pos.Col-2), core.HorizontalWall(w.Pos.Row, w.Pos.Col+2)}
	}
	return [2]core.Wall{core.VerticalWall(w.Pos.Row-2, w.Pos.Col), core.VerticalWall(w.Pos.Row+2, w.Pos.Col)}
}
