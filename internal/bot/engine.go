package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is the outcome of one search
type Result struct {
	SearchID string
	Move     core.Move
	Score    float64
	// Depth is the deepest fully searched depth; 0 when the search was cut
	// short before finishing depth 1.
	Depth       int
	Interrupted bool
	Elapsed     time.Duration
	Stats       SearchStats
}

// Stats is a snapshot of the cumulative counters across every search
type Stats struct {
	Searches     int64  `json:"searches"`
	Interrupted  int64  `json:"interrupted"`
	Nodes        int64  `json:"nodes"`
	Evaluations  int64  `json:"evaluations"`
	TableHits    int64  `json:"table_hits"`
	Cutoffs      int64  `json:"cutoffs"`
	TableEntries int    `json:"table_entries"`
	LastSearchID string `json:"last_search_id,omitempty"`
}

// Engine picks moves for bot seats. It is safe for concurrent use; each call
// gets its own SearchContext and only the transposition table is shared.
type Engine struct {
	settings Settings
	table    *TranspositionTable
	logger   zerolog.Logger

	seeded bool
	seed   int64
	calls  atomic.Int64

	searches    atomic.Int64
	interrupted atomic.Int64
	nodes       atomic.Int64
	evals       atomic.Int64
	tableHits   atomic.Int64
	cutoffs     atomic.Int64
	lastID      atomic.Value
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With().Str("component", "bot_engine").Logger()
	}
}

// WithSeed makes Easy-mode randomness reproducible
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seeded = true
		e.seed = seed
	}
}

// WithTable shares an existing transposition table
func WithTable(t *TranspositionTable) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// NewEngine creates a search engine
func NewEngine(settings Settings, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bot settings: %w", err)
	}
	e := &Engine{
		settings: settings,
		logger:   log.With().Str("component", "bot_engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		e.table = NewTranspositionTable(settings.TableSize)
	}
	return e, nil
}

// Settings returns the engine's tuning
func (e *Engine) Settings() Settings {
	return e.settings
}

// GetBestMove returns the move the bot should play
func (e *Engine) GetBestMove(ctx context.Context, gs *core.GameState, botID int, difficulty core.Difficulty) (core.Move, error) {
	res, err := e.Search(ctx, gs, botID, difficulty)
	if err != nil {
		return core.Move{}, err
	}
	return res.Move, nil
}

// Search runs a full search and reports the chosen move with its score and statistics.
// Cancelling ctx returns the best move found so far.
func (e *Engine) Search(ctx context.Context, gs *core.GameState, botID int, difficulty core.Difficulty) (Result, error) {
	seat, err := e.checkTurn(gs, botID)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	id := uuid.NewString()
	root := gs.CloneForSearch()
	sc := newSearchContext(ctx, e, root, seat, difficulty, e.newRand())
	logger := e.logger.With().
		Str("search_id", id).
		Int("bot_id", botID).
		Str("difficulty", difficulty.String()).
		Logger()

	depth := e.settings.DepthFor(difficulty)
	var best rootResult
	completed := 0
	if difficulty == core.Hard {
		best, completed = sc.iterate(root, depth)
	} else {
		best = sc.searchRoot(root, depth)
		if best.complete {
			completed = depth
		}
	}

	if !best.hasMove {
		fallback, ok := e.fallbackMove(sc, root)
		if !ok {
			logger.Warn().Msg("Bot has no legal moves")
			return Result{}, core.ErrNoLegalMoves
		}
		best = fallback
	}

	move := best.move
	move.Timestamp = time.Now()
	res := Result{
		SearchID:    id,
		Move:        move,
		Score:       best.score,
		Depth:       completed,
		Interrupted: sc.aborted,
		Elapsed:     time.Since(start),
		Stats:       sc.stats,
	}
	e.record(res)

	logger.Debug().
		Str("move", move.String()).
		Float64("score", res.Score).
		Int("depth", res.Depth).
		Int64("nodes", res.Stats.Nodes).
		Int64("table_hits", res.Stats.TableHits).
		Bool("interrupted", res.Interrupted).
		Dur("elapsed", res.Elapsed).
		Msg("Search complete")
	return res, nil
}

// Evaluate scores a position for botID without searching
func (e *Engine) Evaluate(gs *core.GameState, botID int, difficulty core.Difficulty) (float64, error) {
	if gs == nil {
		return 0, fmt.Errorf("%w: nil state", core.ErrMalformedState)
	}
	if err := gs.Validate(); err != nil {
		return 0, err
	}
	seat := gs.PlayerIndex(botID)
	if seat < 0 {
		return 0, fmt.Errorf("%w: %d", core.ErrInvalidPlayer, botID)
	}
	sc := newSearchContext(context.Background(), e, gs, seat, difficulty, e.newRand())
	return sc.evaluate(gs), nil
}

// ClearCache drops every transposition table entry
func (e *Engine) ClearCache() {
	e.table.Clear()
	e.logger.Debug().Msg("Transposition table cleared")
}

// Stats returns the cumulative counters
func (e *Engine) Stats() Stats {
	s := Stats{
		Searches:     e.searches.Load(),
		Interrupted:  e.interrupted.Load(),
		Nodes:        e.nodes.Load(),
		Evaluations:  e.evals.Load(),
		TableHits:    e.tableHits.Load(),
		Cutoffs:      e.cutoffs.Load(),
		TableEntries: e.table.Len(),
	}
	if id, ok := e.lastID.Load().(string); ok {
		s.LastSearchID = id
	}
	return s
}

func (e *Engine) checkTurn(gs *core.GameState, botID int) (int, error) {
	if gs == nil {
		return -1, fmt.Errorf("%w: nil state", core.ErrMalformedState)
	}
	if err := gs.Validate(); err != nil {
		return -1, err
	}
	if gs.Status == core.StatusFinished {
		return -1, core.ErrGameOver
	}
	seat := gs.PlayerIndex(botID)
	if seat < 0 {
		return -1, fmt.Errorf("%w: %d", core.ErrInvalidPlayer, botID)
	}
	if seat != gs.CurrentPlayerIndex {
		return -1, fmt.Errorf("%w: bot %d asked to move on seat %d's turn", core.ErrNotPlayersTurn, botID, gs.CurrentPlayerIndex)
	}
	return seat, nil
}

// fallbackMove takes the first ordered move when the search was interrupted
// before any root move finished.
func (e *Engine) fallbackMove(sc *SearchContext, gs *core.GameState) (rootResult, bool) {
	mask := gs.EdgeMask()
	paths := sc.pathLengths(gs, &mask)
	moves := sc.orderedMoves(gs, &mask, paths, nil)
	if len(moves) == 0 {
		return rootResult{}, false
	}
	return rootResult{move: moves[0], score: sc.evaluate(gs), hasMove: true}, true
}

func (e *Engine) newRand() *rand.Rand {
	n := e.calls.Add(1)
	if e.seeded {
		return rand.New(rand.NewSource(e.seed + n))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() + n))
}

func (e *Engine) record(res Result) {
	e.searches.Add(1)
	if res.Interrupted {
		e.interrupted.Add(1)
	}
	e.nodes.Add(res.Stats.Nodes)
	e.evals.Add(res.Stats.Evaluations)
	e.tableHits.Add(res.Stats.TableHits)
	e.cutoffs.Add(res.Stats.Cutoffs + res.Stats.DecisiveCutoffs)
	e.lastID.Store(res.SearchID)
}
