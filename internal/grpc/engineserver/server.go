package engineserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/rules"
)

// Options configures a Server
type Options struct {
	// Bot answers BotMove. A default engine is created when nil.
	Bot            *bot.Engine
	Logger         zerolog.Logger
	SearchTimeout  time.Duration
	IdempotencyTTL time.Duration
}

// Server implements EngineServiceServer over the rules package and the bot.
// It keeps no game state between calls.
type Server struct {
	bot           *bot.Engine
	idempotency   *IdempotencyManager
	logger        zerolog.Logger
	searchTimeout time.Duration
}

// Server configuration defaults
const (
	defaultSearchTimeout  = 10 * time.Second
	defaultIdempotencyTTL = 5 * time.Minute
)

// NewServer creates an engine server
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger.With().Str("component", "EngineServer").Logger()
	if opts.Bot == nil {
		b, err := bot.NewEngine(bot.DefaultSettings(), bot.WithLogger(opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create bot engine: %w", err)
		}
		opts.Bot = b
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = defaultSearchTimeout
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = defaultIdempotencyTTL
	}
	return &Server{
		bot:           opts.Bot,
		idempotency:   NewIdempotencyManager(opts.IdempotencyTTL),
		logger:        logger,
		searchTimeout: opts.SearchTimeout,
	}, nil
}

// Bot returns the engine serving BotMove
func (s *Server) Bot() *bot.Engine {
	return s.bot
}

// NewGRPCServer builds a grpc.Server with the engine service, the health
// service and the logging and recovery interceptors. The returned health
// server lets callers flip to NOT_SERVING before shutdown.
func NewGRPCServer(srv *Server, enableReflection bool, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(srv.logger),
			RecoveryInterceptor(srv.logger),
		),
	}, opts...)
	gs := grpc.NewServer(opts...)
	RegisterEngineServiceServer(gs, srv)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(gs)
		srv.logger.Info().Msg("gRPC reflection enabled")
	}
	return gs, healthServer
}

// NewGame seats the players and returns the opening state
func (s *Server) NewGame(ctx context.Context, req *NewGameRequest) (*NewGameResponse, error) {
	seats, err := seatsFromWire(req.Seats)
	if err != nil {
		return nil, toStatus(err)
	}
	gs, err := core.NewGameState(core.Settings{
		BoardSize:      int(req.BoardSize),
		Seats:          seats,
		WallsPerPlayer: int(req.WallsPerPlayer),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	gameID := uuid.NewString()
	s.logger.Info().
		Str("game_id", gameID).
		Int("board_size", gs.BoardSize).
		Int("players", len(gs.Players)).
		Msg("Creating new game")

	return &NewGameResponse{
		GameId:    gameID,
		State:     stateToWire(gs),
		CreatedAt: timestamppb.Now(),
	}, nil
}

// ValidateMove reports whether the move is legal without applying it
func (s *Server) ValidateMove(ctx context.Context, req *ValidateMoveRequest) (*ValidateMoveResponse, error) {
	gs, move, err := decodeMove(req.State, req.Move)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := rules.ValidateMove(gs, move); err != nil {
		return &ValidateMoveResponse{Valid: false, Reason: core.Reason(err)}, nil
	}
	return &ValidateMoveResponse{Valid: true}, nil
}

// ApplyMove validates and plays the move, returning the successor state
func (s *Server) ApplyMove(ctx context.Context, req *ApplyMoveRequest) (*ApplyMoveResponse, error) {
	if cached, ok := s.idempotency.Check("ApplyMove", req.IdempotencyKey).(*ApplyMoveResponse); ok {
		s.logger.Debug().Str("idempotency_key", req.IdempotencyKey).Msg("Replaying cached ApplyMove response")
		return cached, nil
	}

	gs, move, err := decodeMove(req.State, req.Move)
	if err != nil {
		return nil, toStatus(err)
	}
	if move.Timestamp.IsZero() {
		move.Timestamp = time.Now()
	}

	resp := &ApplyMoveResponse{}
	next, err := rules.ApplyMove(gs, move)
	if err != nil {
		var me *core.MoveError
		if !errors.As(err, &me) {
			return nil, toStatus(err)
		}
		resp.Reason = core.Reason(err)
	} else {
		resp.Valid = true
		resp.State = stateToWire(next)
		resp.GameOver = next.IsFinished()
		resp.Winner = resp.State.Winner
	}

	s.idempotency.Store("ApplyMove", req.IdempotencyKey, resp)
	return resp, nil
}

// AvailableMoves lists the legal moves of a player, by default the one to move
func (s *Server) AvailableMoves(ctx context.Context, req *AvailableMovesRequest) (*AvailableMovesResponse, error) {
	gs, err := stateFromWire(req.State)
	if err != nil {
		return nil, toStatus(err)
	}
	playerID := gs.CurrentPlayer().ID
	if req.PlayerId != nil {
		playerID = int(*req.PlayerId)
	}

	legal := rules.LegalMoves(gs, playerID)
	resp := &AvailableMovesResponse{Moves: make([]*Move, len(legal))}
	for i, m := range legal {
		resp.Moves[i] = moveToWire(m)
	}
	return resp, nil
}

// BotMove searches for the move of the player whose turn it is
func (s *Server) BotMove(ctx context.Context, req *BotMoveRequest) (*BotMoveResponse, error) {
	if cached, ok := s.idempotency.Check("BotMove", req.IdempotencyKey).(*BotMoveResponse); ok {
		s.logger.Debug().Str("idempotency_key", req.IdempotencyKey).Msg("Replaying cached BotMove response")
		return cached, nil
	}

	gs, err := stateFromWire(req.State)
	if err != nil {
		return nil, toStatus(err)
	}
	cur := gs.CurrentPlayer()
	difficulty := cur.Difficulty
	if req.Difficulty != "" {
		if difficulty, err = core.ParseDifficulty(req.Difficulty); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}

	timeout := s.searchTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	searchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.bot.Search(searchCtx, gs, cur.ID, difficulty)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &BotMoveResponse{
		SearchId:    res.SearchID,
		Move:        moveToWire(res.Move),
		Score:       res.Score,
		Depth:       int32(res.Depth),
		Nodes:       res.Stats.Nodes,
		ElapsedMs:   res.Elapsed.Milliseconds(),
		Interrupted: res.Interrupted,
	}
	s.idempotency.Store("BotMove", req.IdempotencyKey, resp)
	return resp, nil
}

func decodeMove(state *GameState, m *Move) (*core.GameState, core.Move, error) {
	gs, err := stateFromWire(state)
	if err != nil {
		return nil, core.Move{}, err
	}
	move, err := moveFromRequest(gs, m)
	if err != nil {
		return nil, core.Move{}, err
	}
	return gs, move, nil
}

// toStatus maps core errors onto gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, core.ErrMalformedState),
		errors.Is(err, core.ErrInvalidSettings),
		errors.Is(err, core.ErrInvalidPlayer):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, core.ErrGameOver), errors.Is(err, core.ErrNotPlayersTurn):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
