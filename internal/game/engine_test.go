package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/states"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) ID() string                 { return "recorder" }
func (r *recorder) InterestedIn(_ string) bool { return true }
func (r *recorder) HandleEvent(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func newTestEngine(t *testing.T, settings core.Settings) (*Engine, *recorder) {
	t.Helper()
	logger := testutil.NopLogger()
	b, err := bot.NewEngine(bot.DefaultSettings(), bot.WithLogger(logger), bot.WithSeed(3))
	require.NoError(t, err)

	bus := events.NewEventBusWithLogger(logger)
	rec := &recorder{}
	bus.Subscribe(rec)

	e, err := NewEngine(context.Background(), GameConfig{
		Settings:      settings,
		Logger:        logger,
		Bot:           b,
		EventBus:      bus,
		SearchTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return e, rec
}

func humans(size, players int) core.Settings {
	return core.Settings{BoardSize: size, Seats: testutil.Seats(players)}
}

func TestNewEngine(t *testing.T) {
	e, rec := newTestEngine(t, testutil.HumanVsBot(9, core.Easy))

	_, err := uuid.Parse(e.GameID())
	assert.NoError(t, err)
	assert.Equal(t, states.PhasePlaying, e.Phase())
	assert.Equal(t, 0, e.CurrentPlayer().ID)
	assert.False(t, e.IsGameOver())
	assert.Equal(t, -1, e.GetWinner())

	assert.Len(t, e.AvailableMoves(0), 131)
	assert.Empty(t, e.AvailableMoves(1))
	assert.Len(t, e.LegalMoves(0), 131)

	assert.Equal(t, []string{events.TypeStateTransition, events.TypeGameStarted, events.TypeTurnStarted}, rec.types())
}

func TestNewEngine_Errors(t *testing.T) {
	_, err := NewEngine(context.Background(), GameConfig{Settings: humans(8, 2), Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, core.ErrInvalidSettings)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewEngine(ctx, GameConfig{Settings: humans(9, 2), Logger: testutil.NopLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitNotation(t *testing.T) {
	e, rec := newTestEngine(t, humans(9, 2))
	rec.reset()

	require.NoError(t, e.SubmitNotation(0, "e8"))
	assert.Equal(t, core.NewPosition(7, 4), e.State().Players[0].Pos)
	assert.Equal(t, 1, e.CurrentPlayer().ID)
	assert.Equal(t, []string{events.TypeMoveSubmitted, events.TypeMoveApplied, events.TypeTurnStarted}, rec.types())

	rec.reset()
	err := e.SubmitNotation(0, "e7")
	assert.ErrorIs(t, err, core.ErrNotPlayersTurn)
	assert.Equal(t, []string{events.TypeMoveSubmitted, events.TypeMoveRejected}, rec.types())

	assert.ErrorIs(t, e.SubmitNotation(1, "zz"), core.ErrInvalidNotation)

	err = e.SubmitNotation(1, "e5")
	assert.ErrorIs(t, err, core.ErrIllegalMove)
	assert.Equal(t, 1, e.CurrentPlayer().ID, "refused move leaves the turn unchanged")
}

func TestSubmitMove_Wall(t *testing.T) {
	e, _ := newTestEngine(t, humans(9, 2))
	require.NoError(t, e.SubmitMove(core.NewWallMove(0, core.HorizontalWall(4, 4))))

	gs := e.State()
	assert.Equal(t, 9, gs.Players[0].WallsRemaining)
	assert.Equal(t, []core.Wall{core.HorizontalWall(4, 4)}, gs.Walls)

	err := e.SubmitMove(core.NewWallMove(1, core.HorizontalWall(4, 5)))
	require.ErrorIs(t, err, core.ErrIllegalMove)
	assert.Equal(t, "wall overlaps or crosses an existing wall", core.Reason(err))
}

// race plays a scripted 7x7 game that seat 0 wins on its seventh move
var race = []string{"c7", "e1", "c6", "e2", "c5", "e3", "c4", "e4", "c3", "e5", "c2", "e6", "c1"}

func TestGameEndsWhenPawnReachesGoal(t *testing.T) {
	e, rec := newTestEngine(t, humans(7, 2))

	for i, n := range race {
		require.NoError(t, e.SubmitNotation(i%2, n), "move %d %s", i, n)
	}

	assert.True(t, e.IsGameOver())
	assert.Equal(t, 0, e.GetWinner())
	assert.Equal(t, states.PhaseFinished, e.Phase())
	assert.Contains(t, rec.types(), events.TypeGameEnded)
	assert.Empty(t, e.AvailableMoves(1))

	assert.ErrorIs(t, e.SubmitNotation(1, "e7"), core.ErrGameOver)
	assert.ErrorIs(t, e.Undo(), core.ErrGameOver)
	assert.ErrorIs(t, e.Redo(), core.ErrGameOver)
	assert.Contains(t, e.Board(false), "winner: Player 1")
}

func TestUndoRedo(t *testing.T) {
	e, rec := newTestEngine(t, humans(9, 2))
	assert.ErrorIs(t, e.Undo(), core.ErrNothingToUndo)

	require.NoError(t, e.SubmitNotation(0, "e8"))
	require.NoError(t, e.SubmitMove(core.NewWallMove(1, core.HorizontalWall(7, 4))))

	rec.reset()
	require.NoError(t, e.Undo())
	gs := e.State()
	assert.Empty(t, gs.Walls)
	assert.Equal(t, 10, gs.Players[1].WallsRemaining)
	assert.Equal(t, 1, e.CurrentPlayer().ID)
	assert.Equal(t, []string{events.TypeMoveUndone, events.TypeTurnStarted}, rec.types())

	require.NoError(t, e.Undo())
	assert.Equal(t, core.NewPosition(8, 4), e.State().Players[0].Pos)
	assert.Equal(t, 0, e.CurrentPlayer().ID)

	require.NoError(t, e.Redo())
	assert.Equal(t, core.NewPosition(7, 4), e.State().Players[0].Pos)
	assert.Equal(t, 1, e.CurrentPlayer().ID)

	// A fresh move drops the remaining redo entry
	require.NoError(t, e.SubmitNotation(1, "d1"))
	assert.ErrorIs(t, e.Redo(), core.ErrNothingToRedo)
}

func TestPlayBotTurn(t *testing.T) {
	e, rec := newTestEngine(t, testutil.HumanVsBot(7, core.Medium))

	_, err := e.PlayBotTurn(context.Background())
	assert.ErrorIs(t, err, ErrNotBotTurn)

	require.NoError(t, e.SubmitNotation(0, "d6"))
	rec.reset()

	move, err := e.PlayBotTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, move.PlayerID)
	assert.Equal(t, 0, e.CurrentPlayer().ID)
	assert.Equal(t, events.TypeBotSearched, rec.types()[0])
	assert.Contains(t, rec.types(), events.TypeMoveApplied)
	assert.EqualValues(t, 1, e.Bot().Stats().Searches)

	played, err := e.PlayBotTurns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, played, "human seat is to move")
}

func TestPlayBotTurns_BotVsBot(t *testing.T) {
	e, _ := newTestEngine(t, core.Settings{BoardSize: 7, Seats: testutil.BotSeats(2, core.Easy)})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	played, err := e.PlayBotTurns(ctx)
	require.NoError(t, err)

	assert.True(t, e.IsGameOver())
	assert.Contains(t, []int{0, 1}, e.GetWinner())
	assert.Len(t, played, e.State().HistoryIndex)

	_, err = e.PlayBotTurn(ctx)
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestBoardRendering(t *testing.T) {
	e, _ := newTestEngine(t, humans(7, 2))
	require.NoError(t, e.SubmitMove(core.NewWallMove(0, core.HorizontalWall(3, 2))))
	require.NoError(t, e.SubmitMove(core.NewWallMove(1, core.VerticalWall(0, 1))))

	board := e.Board(false)
	lines := strings.Split(board, "\n")
	assert.Equal(t, "   a b c d e f g ", lines[0])
	assert.Equal(t, " 1 ·┃· · B · · · ", lines[1])
	assert.Equal(t, "       ━ ━       ", lines[6])
	assert.Equal(t, " 7 · · · A · · · ", lines[13])
	assert.Contains(t, board, "> A Player 1")
	assert.Contains(t, board, "walls=9")

	colored := e.Board(true)
	assert.Contains(t, colored, "\033[31mA\033[0m")
}

func TestEngine_ConcurrentReaders(t *testing.T) {
	e, _ := newTestEngine(t, humans(7, 2))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = e.State()
					_ = e.Board(false)
					_ = e.AvailableMoves(0)
				}
			}
		}()
	}

	for i, n := range race {
		if err := e.SubmitNotation(i%2, n); err != nil && !errors.Is(err, core.ErrGameOver) {
			t.Errorf("move %s: %v", n, err)
		}
	}
	close(stop)
	wg.Wait()
	assert.True(t, e.IsGameOver())
}

func TestReset(t *testing.T) {
	e, rec := newTestEngine(t, humans(7, 2))
	assert.ErrorIs(t, e.Reset(), ErrGameInProgress)

	for i, n := range race {
		require.NoError(t, e.SubmitNotation(i%2, n))
	}
	require.True(t, e.IsGameOver())

	rec.reset()
	require.NoError(t, e.Reset())

	assert.Equal(t, states.PhasePlaying, e.Phase())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, -1, e.GetWinner())
	gs := e.State()
	assert.Equal(t, 0, gs.HistoryIndex)
	assert.Empty(t, gs.History)
	assert.Equal(t, testutil.StandardGame(t, 7, 2).Players[0].Pos, gs.Players[0].Pos)
	assert.Equal(t, 0, e.CurrentPlayer().ID)
	assert.Equal(t, []string{
		events.TypeStateTransition, // Finished -> Reset
		events.TypeStateTransition, // Reset -> Initializing
		events.TypeStateTransition, // Initializing -> Playing
		events.TypeGameStarted,
		events.TypeTurnStarted,
	}, rec.types())

	require.NoError(t, e.SubmitNotation(0, race[0]))
}

func TestPlayBotTurn_NoLegalMovesHaltsGame(t *testing.T) {
	e, _ := newTestEngine(t, testutil.HumanVsBot(7, core.Medium))

	// Boxed into the corner by a wall pair and seat 0's pawn, with no walls left
	e.gs.CurrentPlayerIndex = 1
	e.gs.Players[1].Pos = core.NewPosition(0, 0)
	e.gs.Players[1].WallsRemaining = 0
	e.gs.Players[0].Pos = core.NewPosition(0, 1)
	e.gs.Walls = []core.Wall{core.HorizontalWall(1, 0), core.VerticalWall(0, 2)}

	_, err := e.PlayBotTurn(context.Background())
	require.ErrorIs(t, err, core.ErrNoLegalMoves)
	assert.Equal(t, states.PhaseError, e.Phase())
	assert.ErrorIs(t, e.stateMachine.GetContext().Error, core.ErrNoLegalMoves)

	_, err = e.PlayBotTurn(context.Background())
	assert.ErrorIs(t, err, ErrGameHalted)
	assert.ErrorIs(t, e.SubmitNotation(0, "b2"), ErrGameHalted)
	assert.ErrorIs(t, e.Undo(), ErrGameHalted)

	require.NoError(t, e.Reset())
	assert.Equal(t, states.PhasePlaying, e.Phase())
	assert.NoError(t, e.SubmitNotation(0, "d6"))
}

// failingFinish refuses to enter PhaseFinished
type failingFinish struct{ states.State }

func (failingFinish) Enter(*states.GameContext) error { return errors.New("finish hook failed") }

func TestFinishTransitionFailureHaltsGame(t *testing.T) {
	e, rec := newTestEngine(t, humans(7, 2))
	e.stateMachine.RegisterState(failingFinish{states.NewFinishedState()})

	for i, n := range race {
		require.NoError(t, e.SubmitNotation(i%2, n), "move %d %s", i, n)
	}

	assert.True(t, e.IsGameOver())
	assert.Equal(t, states.PhaseError, e.Phase())
	assert.NotContains(t, rec.types(), events.TypeGameEnded)
	assert.ErrorContains(t, e.stateMachine.GetContext().Error, "finish hook failed")

	require.NoError(t, e.Reset())
	assert.Equal(t, states.PhasePlaying, e.Phase())
	assert.False(t, e.IsGameOver())
}
