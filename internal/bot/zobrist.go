package bot

import (
	"sync"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

const (
	maxSeats      = 4
	maxCells      = core.MaxBoardSize * core.MaxBoardSize
	maxWallCounts = 32
)

// zobristTable holds the random keys for one board size. Keys are fixed per
// size so hashes are stable across engines and runs.
type zobristTable struct {
	size        int
	pawns       [maxSeats][maxCells]uint64
	walls       [2][maxCells]uint64
	wallsLeft   [maxSeats][maxWallCounts]uint64
	toMove      [maxSeats]uint64
	perspective [maxSeats]uint64
	allowance   [maxWallCounts]uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*zobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*zobristTable)}

func getZobrist(size int) *zobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	z := &zobristTable{size: size}
	for s := 0; s < maxSeats; s++ {
		for c := 0; c < maxCells; c++ {
			z.pawns[s][c] = rng.next()
		}
		for n := 0; n < maxWallCounts; n++ {
			z.wallsLeft[s][n] = rng.next()
		}
		z.toMove[s] = rng.next()
		z.perspective[s] = rng.next()
	}
	for o := 0; o < 2; o++ {
		for c := 0; c < maxCells; c++ {
			z.walls[o][c] = rng.next()
		}
	}
	for n := 0; n < maxWallCounts; n++ {
		z.allowance[n] = rng.next()
	}
	zobristTables.tables[size] = z
	return z
}

// wallsHash is independent of the order the walls were placed in
func (z *zobristTable) wallsHash(walls []core.Wall) uint64 {
	var h uint64
	for _, w := range walls {
		h ^= z.walls[w.Orientation&1][w.Pos.Index(z.size)]
	}
	return h
}

// hash keys a position for one searching seat. Scores are stored from that
// seat's point of view and depend on its root wall allowance, so both are
// part of the key.
func (z *zobristTable) hash(gs *core.GameState, perspectiveSeat, wallAllowance int) uint64 {
	h := z.wallsHash(gs.Walls)
	for i := range gs.Players {
		if i >= maxSeats {
			break
		}
		p := &gs.Players[i]
		h ^= z.pawns[i][p.Pos.Index(z.size)]
		h ^= z.wallsLeft[i][p.WallsRemaining&(maxWallCounts-1)]
	}
	h ^= z.toMove[gs.CurrentPlayerIndex&(maxSeats-1)]
	h ^= z.perspective[perspectiveSeat&(maxSeats-1)]
	h ^= z.allowance[wallAllowance&(maxWallCounts-1)]
	return h
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
