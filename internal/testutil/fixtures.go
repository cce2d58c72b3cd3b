package testutil

import (
	"testing"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
)

// Seats returns n human seats
func Seats(n int) []core.SeatConfig {
	seats := make([]core.SeatConfig, n)
	for i := range seats {
		seats[i] = core.SeatConfig{Controller: core.Human}
	}
	return seats
}

// BotSeats returns n bot seats at the given difficulty
func BotSeats(n int, d core.Difficulty) []core.SeatConfig {
	seats := make([]core.SeatConfig, n)
	for i := range seats {
		seats[i] = core.SeatConfig{Controller: core.Bot, Difficulty: d}
	}
	return seats
}

// HumanVsBot returns settings for seat 0 human, seat 1 bot
func HumanVsBot(size int, d core.Difficulty) core.Settings {
	return core.Settings{
		BoardSize: size,
		Seats:     []core.SeatConfig{{Controller: core.Human}, {Controller: core.Bot, Difficulty: d}},
	}
}

// StandardGame returns a fresh all-human game
func StandardGame(t testing.TB, size, players int) *core.GameState {
	t.Helper()
	gs, err := core.NewGameState(core.Settings{BoardSize: size, Seats: Seats(players)})
	if err != nil {
		t.Fatalf("standard game: %v", err)
	}
	return gs
}

// NearWinGame returns a 7x7 two-player game where seat 0 at c2 is one step
// from its goal row and to move.
func NearWinGame(t testing.TB) *core.GameState {
	t.Helper()
	gs := StandardGame(t, 7, 2)
	gs.Players[0].Pos = core.NewPosition(1, 2)
	return gs
}
