package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/config"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/grpc/engineserver"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/ops"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", os.Getenv("APP_ENV"), "Environment overlay to merge (config.<env>.yaml)")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	enableReflection := flag.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	watch := flag.Bool("watch-config", false, "Reload the config file when it changes")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if *env != "" {
		if err := config.LoadEnvironmentConfig(*env); err != nil {
			log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
		}
	}

	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *port == -1 {
		*port = cfg.Server.GRPCServer.Port
	}
	if *host == "" {
		*host = cfg.Server.GRPCServer.Host
	}
	if *logLevel == "" {
		*logLevel = cfg.Server.GRPCServer.LogLevel
	}
	if !*enableReflection {
		*enableReflection = cfg.Server.GRPCServer.EnableReflection
	}

	setupLogging(*logLevel)

	if *watch {
		config.WatchConfig(func(err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Config change rejected")
				return
			}
			// Search tuning is fixed at startup; only the log level follows the file.
			setLevel(config.Get().Server.GRPCServer.LogLevel)
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		})
	}

	engine, err := bot.NewEngine(cfg.BotSettings(), bot.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot engine")
	}
	srv, err := engineserver.NewServer(engineserver.Options{
		Bot:            engine,
		Logger:         log.Logger,
		SearchTimeout:  cfg.Bot.SearchTimeout,
		IdempotencyTTL: cfg.Server.GRPCServer.IdempotencyTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine server")
	}

	log.Info().
		Int("port", *port).
		Str("host", *host).
		Dur("search_timeout", cfg.Bot.SearchTimeout).
		Msg("Starting gRPC engine server")

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to listen")
	}
	grpcServer, healthServer := engineserver.NewGRPCServer(srv, *enableReflection)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opsServer *http.Server
	if cfg.Server.Ops.Enabled {
		monitor := ops.NewRuntimeMonitor(30*time.Second, 1000, log.Logger)
		go monitor.Run(ctx)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Ops.Host, cfg.Server.Ops.Port)
		opsServer = ops.New(engine, monitor, log.Logger).NewHTTPServer(addr)
		go func() {
			log.Info().Str("address", addr).Msg("Ops HTTP server listening")
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Ops server failed")
			}
		}()
	}

	go func() {
		log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(engineserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	// Give load balancers time to see NOT_SERVING before connections drain.
	time.Sleep(time.Duration(cfg.Server.GRPCServer.GracefulShutdownDelay) * time.Second)

	log.Info().Msg("Gracefully stopping gRPC server")
	grpcServer.GracefulStop()
	if opsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Ops server shutdown")
		}
	}

	stats := engine.Stats()
	log.Info().
		Int64("searches", stats.Searches).
		Int64("nodes", stats.Nodes).
		Msg("Server shutdown complete")
}

func setupLogging(level string) {
	setLevel(level)

	// Check if we're in production
	if os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}

func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
