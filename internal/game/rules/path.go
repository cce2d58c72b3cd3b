package rules

import (
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// NoPath is returned by the path-length functions when the goal is unreachable
const NoPath = -1

const maxCells = core.MaxBoardSize * core.MaxBoardSize

// HasPathToGoal reports whether the player can still reach any goal cell.
// Pawns are ignored; only walls block.
func HasPathToGoal(gs *core.GameState, playerID int) bool {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return false
	}
	mask := gs.EdgeMask()
	return ReachesGoal(&mask, p)
}

// ShortestPathLength returns the number of steps to the player's nearest goal cell, or NoPath
func ShortestPathLength(gs *core.GameState, playerID int) int {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return NoPath
	}
	mask := gs.EdgeMask()
	return PathLength(&mask, p)
}

// ShortestPath returns the cells of a shortest route, start included, or nil when unreachable
func ShortestPath(gs *core.GameState, playerID int) []core.Position {
	p := gs.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	mask := gs.EdgeMask()
	return PathFor(&mask, p)
}

// ReachesGoal is HasPathToGoal over a prebuilt edge mask
func ReachesGoal(mask *core.EdgeMask, p *core.Player) bool {
	return PathLength(mask, p) != NoPath
}

// PathLength is ShortestPathLength over a prebuilt edge mask
func PathLength(mask *core.EdgeMask, p *core.Player) int {
	return PathLengthFrom(mask, p, p.Pos)
}

// PathLengthFrom measures the distance to p's goal as if p stood on start
func PathLengthFrom(mask *core.EdgeMask, p *core.Player, start core.Position) int {
	var prev [maxCells]int
	end, dist := search(mask, p, start, &prev)
	if end < 0 {
		return NoPath
	}
	return dist
}

// PathFor is ShortestPath over a prebuilt edge mask
func PathFor(mask *core.EdgeMask, p *core.Player) []core.Position {
	var prev [maxCells]int
	end, dist := search(mask, p, p.Pos, &prev)
	if end < 0 {
		return nil
	}
	size := mask.Size()
	path := make([]core.Position, dist+1)
	for i, cell := dist, end; i >= 0; i-- {
		path[i] = core.PositionFromIndex(cell, size)
		cell = prev[cell]
	}
	return path
}

// search runs a breadth-first search from start and returns the first goal
// cell reached with its distance, or -1. prev receives the parent of each
// visited cell.
func search(mask *core.EdgeMask, p *core.Player, start core.Position, prev *[maxCells]int) (int, int) {
	size := mask.Size()
	if !start.InBounds(size) {
		return -1, 0
	}
	if p.IsGoal(start, size) {
		return start.Index(size), 0
	}

	var dist [maxCells]int
	for i := 0; i < size*size; i++ {
		dist[i] = -1
	}
	var queue [maxCells]int
	head, tail := 0, 0

	s := start.Index(size)
	dist[s] = 0
	prev[s] = s
	queue[tail] = s
	tail++

	for head < tail {
		cur := queue[head]
		head++
		pos := core.PositionFromIndex(cur, size)
		for _, d := range core.Directions {
			next, ok := mask.CanStep(pos, d)
			if !ok {
				continue
			}
			ni := next.Index(size)
			if dist[ni] >= 0 {
				continue
			}
			dist[ni] = dist[cur] + 1
			prev[ni] = cur
			if p.IsGoal(next, size) {
				return ni, dist[ni]
			}
			queue[tail] = ni
			tail++
		}
	}
	return -1, 0
}
