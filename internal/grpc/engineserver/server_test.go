package engineserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/testutil"
)

const bufSize = 1024 * 1024

// setupTestServer starts an in-memory gRPC server and returns a client for it
func setupTestServer(t *testing.T) (*Client, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(bufSize)

	settings := bot.DefaultSettings()
	settings.TableSize = 1 << 12
	b, err := bot.NewEngine(settings, bot.WithLogger(zerolog.Nop()), bot.WithSeed(1))
	require.NoError(t, err)
	srv, err := NewServer(Options{Bot: b, Logger: zerolog.Nop(), SearchTimeout: 30 * time.Second})
	require.NoError(t, err)

	s, _ := NewGRPCServer(srv, false)
	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		lis.Close()
	})
	return NewClient(conn), conn
}

func newGame(t *testing.T, client *Client, req *NewGameRequest) *GameState {
	t.Helper()
	resp, err := client.NewGame(context.Background(), req)
	require.NoError(t, err)
	return resp.State
}

func TestNewGame(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	resp, err := client.NewGame(ctx, &NewGameRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.GameId)
	require.NotNil(t, resp.CreatedAt)
	assert.WithinDuration(t, time.Now(), resp.CreatedAt.AsTime(), time.Minute)

	st := resp.State
	assert.Equal(t, int32(9), st.BoardSize)
	assert.Equal(t, "playing", st.Status)
	require.Len(t, st.Players, 2)
	assert.Equal(t, &Position{Row: 8, Col: 4}, st.Players[0].Position)
	assert.Equal(t, &Position{Row: 0, Col: 4}, st.Players[1].Position)
	assert.Equal(t, int32(10), st.Players[0].WallsRemaining)
	assert.Equal(t, "Player 1", st.Players[0].Name)

	resp2, err := client.NewGame(ctx, &NewGameRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, resp.GameId, resp2.GameId)

	st = newGame(t, client, &NewGameRequest{
		BoardSize: 7,
		Seats:     []*Seat{{Controller: "human"}, {Controller: "bot", Difficulty: "hard"}, {Name: "Carol"}},
	})
	require.Len(t, st.Players, 3)
	assert.Equal(t, int32(7), st.Players[1].WallsRemaining)
	assert.Equal(t, "Bot (hard)", st.Players[1].Name)
	assert.Equal(t, "bot", st.Players[1].Controller)
	assert.Equal(t, "Carol", st.Players[2].Name)
}

func TestNewGame_InvalidSettings(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *NewGameRequest
	}{
		{"board size", &NewGameRequest{BoardSize: 8}},
		{"one seat", &NewGameRequest{Seats: []*Seat{{}}}},
		{"controller", &NewGameRequest{Seats: []*Seat{{Controller: "robot"}, {}}}},
		{"difficulty", &NewGameRequest{Seats: []*Seat{{Difficulty: "brutal"}, {}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.NewGame(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestValidateMove(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{})

	tests := []struct {
		name   string
		move   *Move
		valid  bool
		reason string
	}{
		{"notation step", &Move{PlayerId: 0, Notation: "e8"}, true, ""},
		{"structured step", &Move{Kind: "pawn", PlayerId: 0, From: &Position{Row: 8, Col: 4}, To: &Position{Row: 8, Col: 3}}, true, ""},
		{"wall", &Move{Kind: "wall", PlayerId: 0, Wall: &Wall{Row: 3, Col: 4, Orientation: "h"}}, true, ""},
		{"two squares", &Move{Kind: "pawn", PlayerId: 0, From: &Position{Row: 8, Col: 4}, To: &Position{Row: 6, Col: 4}}, false, "pawn move not allowed"},
		{"wrong origin", &Move{Kind: "pawn", PlayerId: 0, From: &Position{Row: 7, Col: 4}, To: &Position{Row: 6, Col: 4}}, false, "pawn move does not start from the player's position"},
		{"not your turn", &Move{PlayerId: 1, Notation: "e2"}, false, "not your turn"},
		{"wall off board", &Move{Kind: "wall", PlayerId: 0, Wall: &Wall{Row: 0, Col: 4, Orientation: "horizontal"}}, false, "wall is out of bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.ValidateMove(ctx, &ValidateMoveRequest{State: st, Move: tt.move})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, resp.Valid)
			assert.Equal(t, tt.reason, resp.Reason)
		})
	}
}

func TestValidateMove_BadRequests(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{})

	broken := *st
	broken.BoardSize = 8

	tests := []struct {
		name string
		req  *ValidateMoveRequest
	}{
		{"missing state", &ValidateMoveRequest{Move: &Move{Notation: "e8"}}},
		{"malformed state", &ValidateMoveRequest{State: &broken, Move: &Move{Notation: "e8"}}},
		{"missing move", &ValidateMoveRequest{State: st}},
		{"bad notation", &ValidateMoveRequest{State: st, Move: &Move{Notation: "zz"}}},
		{"unknown kind", &ValidateMoveRequest{State: st, Move: &Move{Kind: "jump"}}},
		{"bad orientation", &ValidateMoveRequest{State: st, Move: &Move{Kind: "wall", Wall: &Wall{Row: 3, Col: 4, Orientation: "diagonal"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ValidateMove(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestApplyMove(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{})

	resp, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: &Move{PlayerId: 0, Notation: "e8"}})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	assert.False(t, resp.GameOver)
	assert.Nil(t, resp.Winner)

	next := resp.State
	assert.Equal(t, &Position{Row: 7, Col: 4}, next.Players[0].Position)
	assert.Equal(t, int32(1), next.CurrentPlayerIndex)
	require.Len(t, next.History, 1)
	assert.Equal(t, "e8", next.History[0].Notation)
	assert.NotNil(t, next.History[0].PlayedAt)
	assert.Equal(t, int32(1), next.HistoryIndex)

	// The request state is untouched; the caller owns both.
	assert.Equal(t, &Position{Row: 8, Col: 4}, st.Players[0].Position)

	resp, err = client.ApplyMove(ctx, &ApplyMoveRequest{State: next, Move: &Move{PlayerId: 1, Notation: "e4h"}})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Len(t, resp.State.Walls, 1)
	assert.Equal(t, &Wall{Row: 3, Col: 4, Orientation: "horizontal"}, resp.State.Walls[0])
	assert.Equal(t, int32(9), resp.State.Players[1].WallsRemaining)
	assert.Equal(t, int32(0), resp.State.CurrentPlayerIndex)

	resp, err = client.ApplyMove(ctx, &ApplyMoveRequest{State: resp.State, Move: &Move{PlayerId: 0, Notation: "e4h"}})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "wall overlaps or crosses an existing wall", resp.Reason)
	assert.Nil(t, resp.State)
}

func TestApplyMove_Win(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := stateToWire(testutil.NearWinGame(t))

	resp, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: &Move{PlayerId: 0, Notation: "c1"}})
	require.NoError(t, err)
	require.True(t, resp.Valid)
	assert.True(t, resp.GameOver)
	require.NotNil(t, resp.Winner)
	assert.Equal(t, int32(0), *resp.Winner)
	assert.Equal(t, "finished", resp.State.Status)

	moves, err := client.AvailableMoves(ctx, &AvailableMovesRequest{State: resp.State})
	require.NoError(t, err)
	assert.Empty(t, moves.Moves)

	_, err = client.BotMove(ctx, &BotMoveRequest{State: resp.State})
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	v, err := client.ValidateMove(ctx, &ValidateMoveRequest{State: resp.State, Move: &Move{PlayerId: 1, Notation: "d2"}})
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "game is not in playing state", v.Reason)
}

func TestApplyMove_Idempotency(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{})

	first, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: &Move{PlayerId: 0, Notation: "e8"}, IdempotencyKey: "move-1"})
	require.NoError(t, err)

	// A retry with the same key replays the first answer even if the payload drifted.
	retry, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: &Move{PlayerId: 0, Notation: "d9"}, IdempotencyKey: "move-1"})
	require.NoError(t, err)
	assert.Equal(t, first.State.Players[0].Position, retry.State.Players[0].Position)

	other, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: &Move{PlayerId: 0, Notation: "d9"}, IdempotencyKey: "move-2"})
	require.NoError(t, err)
	assert.Equal(t, &Position{Row: 8, Col: 3}, other.State.Players[0].Position)
}

func TestAvailableMoves(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{})

	resp, err := client.AvailableMoves(ctx, &AvailableMovesRequest{State: st})
	require.NoError(t, err)
	require.Len(t, resp.Moves, 131)
	pawns := 0
	for _, m := range resp.Moves {
		if m.Kind == "pawn" {
			pawns++
		}
	}
	assert.Equal(t, 3, pawns)
	assert.Equal(t, "pawn", resp.Moves[0].Kind)
	assert.Equal(t, "wall", resp.Moves[len(resp.Moves)-1].Kind)

	other := int32(1)
	resp, err = client.AvailableMoves(ctx, &AvailableMovesRequest{State: st, PlayerId: &other})
	require.NoError(t, err)
	assert.Empty(t, resp.Moves, "only the player to move has legal moves")
}

func TestBotMove(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()
	st := newGame(t, client, &NewGameRequest{
		BoardSize: 7,
		Seats:     []*Seat{{Controller: "bot", Difficulty: "medium"}, {}},
	})

	resp, err := client.BotMove(ctx, &BotMoveRequest{State: st, IdempotencyKey: "search-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SearchId)
	require.NotNil(t, resp.Move)
	assert.Equal(t, int32(0), resp.Move.PlayerId)
	assert.Equal(t, int32(3), resp.Depth)
	assert.Positive(t, resp.Nodes)
	assert.False(t, resp.Interrupted)

	applied, err := client.ApplyMove(ctx, &ApplyMoveRequest{State: st, Move: resp.Move})
	require.NoError(t, err)
	assert.True(t, applied.Valid, applied.Reason)

	replay, err := client.BotMove(ctx, &BotMoveRequest{State: st, IdempotencyKey: "search-1"})
	require.NoError(t, err)
	assert.Equal(t, resp.SearchId, replay.SearchId)

	easy, err := client.BotMove(ctx, &BotMoveRequest{State: st, Difficulty: "easy"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), easy.Depth)

	_, err = client.BotMove(ctx, &BotMoveRequest{State: st, Difficulty: "brutal"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	_, conn := setupTestServer(t)

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zerolog.Nop())
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("BotMove")}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("boom")
	})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestStateConversion(t *testing.T) {
	gs := testutil.StandardGame(t, 9, 4)
	gs.Walls = append(gs.Walls, core.HorizontalWall(3, 4), core.VerticalWall(5, 2))
	gs.Players[2].WallsRemaining = 3
	gs.CurrentPlayerIndex = 2

	back, err := stateFromWire(stateToWire(gs))
	require.NoError(t, err)
	assert.Equal(t, gs, back)

	wire := stateToWire(gs)
	wire.Status = "paused"
	_, err = stateFromWire(wire)
	assert.ErrorIs(t, err, core.ErrMalformedState)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{core.ErrMalformedState, codes.InvalidArgument},
		{core.ErrInvalidPlayer, codes.InvalidArgument},
		{core.ErrGameOver, codes.FailedPrecondition},
		{core.ErrNotPlayersTurn, codes.FailedPrecondition},
		{core.ErrNoLegalMoves, codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(toStatus(tt.err)), tt.err.Error())
	}
}
