package bot

import (
	"fmt"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// Weights of the evaluation terms
type Weights struct {
	PathDiff       float64
	WallDiff       float64
	Flexibility    float64
	Positional     float64
	WallEfficiency float64
}

// Settings tunes the search. The zero value is not usable; start from DefaultSettings.
type Settings struct {
	EasyDepth   int
	MediumDepth int
	HardDepth   int

	MaxWallCandidates int
	// EasySkipWallsProbability is the chance an Easy bot ignores walls at a node
	EasySkipWallsProbability float64
	EasyScoreFactor          float64

	WinScore          float64
	DecisiveThreshold float64
	// NearWinMargin stops iterative deepening once the score is within this of WinScore
	NearWinMargin float64
	// UnreachablePath stands in for the path length of a player with no route
	UnreachablePath int

	// TableSize is the number of transposition table slots, rounded up to a power of two
	TableSize int

	Weights Weights
}

// DefaultSettings returns the standard tuning
func DefaultSettings() Settings {
	return Settings{
		EasyDepth:                1,
		MediumDepth:              3,
		HardDepth:                5,
		MaxWallCandidates:        15,
		EasySkipWallsProbability: 0.8,
		EasyScoreFactor:          0.5,
		WinScore:                 10000,
		DecisiveThreshold:        50,
		NearWinMargin:            100,
		UnreachablePath:          200,
		TableSize:                1 << 18,
		Weights: Weights{
			PathDiff:       10,
			WallDiff:       2,
			Flexibility:    1.5,
			Positional:     1,
			WallEfficiency: 3,
		},
	}
}

// DepthFor returns the search depth for a difficulty
func (s Settings) DepthFor(d core.Difficulty) int {
	switch d {
	case core.Easy:
		return s.EasyDepth
	case core.Hard:
		return s.HardDepth
	default:
		return s.MediumDepth
	}
}

// Validate rejects settings the search cannot run with
func (s Settings) Validate() error {
	if s.EasyDepth < 1 || s.MediumDepth < 1 || s.HardDepth < 1 {
		return fmt.Errorf("search depths must be at least 1")
	}
	if s.MaxWallCandidates < 0 {
		return fmt.Errorf("max wall candidates must be non-negative")
	}
	if s.EasySkipWallsProbability < 0 || s.EasySkipWallsProbability > 1 {
		return fmt.Errorf("easy skip walls probability must be between 0 and 1")
	}
	if s.WinScore <= 0 {
		return fmt.Errorf("win score must be positive")
	}
	if s.NearWinMargin < 0 || s.NearWinMargin >= s.WinScore {
		return fmt.Errorf("near win margin must be in [0, win score)")
	}
	if s.UnreachablePath <= core.MaxBoardSize*core.MaxBoardSize {
		return fmt.Errorf("unreachable path must exceed any real path length")
	}
	if s.TableSize < 1 {
		return fmt.Errorf("table size must be positive")
	}
	return nil
}
