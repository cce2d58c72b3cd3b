package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/config"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/events/subscribers"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	size := flag.Int("size", 0, "Board size: 7, 9 or 11 (0 to use config default)")
	players := flag.Int("players", 0, "Number of players, 2 to 4 (0 to use config default)")
	difficulty := flag.String("difficulty", "", "Bot difficulty: easy, medium or hard (empty to use config default)")
	random := flag.Bool("random", false, "Play seeded random legal moves instead of searching")
	seed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	maxTurns := flag.Int("max-turns", 200, "Stop after this many moves")
	delay := flag.Duration("delay", 0, "Pause between moves")
	games := flag.Int("games", 1, "Number of games to play on the same engine")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *size != 0 {
		must(config.Set("game.board_size", *size))
	}
	if *players != 0 {
		must(config.Set("game.players", *players))
	}
	if *difficulty != "" {
		must(config.Set("game.bot_difficulty", *difficulty))
	}
	cfg := config.Get()
	setupLogging(cfg.Development.VerboseLogging)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	fmt.Printf("Game seed: %d\n", *seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newGame(ctx, cfg, *seed, !*random)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}

	rng := rand.New(rand.NewSource(*seed))
	wins := make(map[string]int)
	for g := 1; g <= *games && ctx.Err() == nil; g++ {
		if g > 1 {
			if err := e.Reset(); err != nil {
				log.Fatal().Err(err).Msg("Failed to reset game")
			}
			fmt.Printf("\n=== Game %d ===\n", g)
		}
		if name, ok := playGame(ctx, e, rng, *random, *maxTurns, *delay, cfg.Development.ColorBoard); ok {
			wins[name]++
		}
		if !e.Phase().IsTerminal() {
			break
		}
	}
	if *games > 1 {
		fmt.Printf("Wins: %v\n", wins)
	}

	stats := e.Bot().Stats()
	log.Info().
		Int("games", *games).
		Int64("searches", stats.Searches).
		Int64("nodes", stats.Nodes).
		Int64("table_hits", stats.TableHits).
		Msg("Game complete")
}

// playGame plays one game to completion or maxTurns and returns the winner's name
func playGame(ctx context.Context, e *game.Engine, rng *rand.Rand, random bool, maxTurns int, delay time.Duration, color bool) (string, bool) {
	fmt.Printf("Initial board:\n%s\n", e.Board(color))

	for turn := 1; turn <= maxTurns && !e.IsGameOver(); turn++ {
		if err := ctx.Err(); err != nil {
			break
		}
		mover := e.CurrentPlayer()
		notation, err := playTurn(ctx, e, rng, random)
		if err != nil {
			log.Error().Err(err).Int("turn", turn).Str("phase", e.Phase().String()).Msg("Turn failed")
			break
		}
		fmt.Printf("Turn %d: %s plays %s\n%s\n", turn, mover.Name, notation, e.Board(color))
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	winner := e.GetWinner()
	if winner < 0 {
		fmt.Println("No winner")
		return "", false
	}
	name := e.State().PlayerByID(winner).Name
	fmt.Printf("Winner: %s\n", name)
	return name, true
}

// newGame builds the engine from config. With bots every seat is searched;
// otherwise all seats are human and moves come from the random picker.
func newGame(ctx context.Context, cfg *config.Config, seed int64, bots bool) (*game.Engine, error) {
	settings, err := cfg.GameSettings(bots)
	if err != nil {
		return nil, err
	}
	if !bots {
		for i := range settings.Seats {
			settings.Seats[i].Controller = core.Human
		}
	}
	b, err := bot.NewEngine(cfg.BotSettings(), bot.WithLogger(log.Logger), bot.WithSeed(seed))
	if err != nil {
		return nil, err
	}
	e, err := game.NewEngine(ctx, game.GameConfig{
		Settings:      settings,
		Logger:        log.Logger,
		Bot:           b,
		SearchTimeout: cfg.Bot.SearchTimeout,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Development.LogEvents {
		sub := subscribers.NewLoggerSubscriber("demo_logger", log.Logger, zerolog.InfoLevel)
		sub.SetDevMode(cfg.Development.VerboseLogging)
		e.EventBus().Subscribe(sub)
	}
	return e, nil
}

func playTurn(ctx context.Context, e *game.Engine, rng *rand.Rand, random bool) (string, error) {
	if !random {
		move, err := e.PlayBotTurn(ctx)
		if err != nil {
			return "", err
		}
		return move.Notation(), nil
	}
	moves := e.LegalMoves(e.CurrentPlayer().ID)
	if len(moves) == 0 {
		return "", fmt.Errorf("no legal moves for %s", e.CurrentPlayer().Name)
	}
	move := moves[rng.Intn(len(moves))]
	return move.Notation(), e.SubmitMove(move)
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid flag")
	}
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
