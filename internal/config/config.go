package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
	"github.com/mitchelldurbincs/QuoridorEngine/internal/game/core"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QRD_BOT_HARD_DEPTH
const EnvPrefix = "QRD"

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	Bot         BotConfig         `mapstructure:"bot"`
	Server      ServerConfig      `mapstructure:"server"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds the default table setup
type GameConfig struct {
	BoardSize int `mapstructure:"board_size"`
	Players   int `mapstructure:"players"`
	// WallsPerPlayer of 0 uses the standard allowance for the player count
	WallsPerPlayer int    `mapstructure:"walls_per_player"`
	BotDifficulty  string `mapstructure:"bot_difficulty"`
}

// BotConfig holds search tuning
type BotConfig struct {
	EasyDepth                int           `mapstructure:"easy_depth"`
	MediumDepth              int           `mapstructure:"medium_depth"`
	HardDepth                int           `mapstructure:"hard_depth"`
	MaxWallCandidates        int           `mapstructure:"max_wall_candidates"`
	EasySkipWallsProbability float64       `mapstructure:"easy_skip_walls_probability"`
	EasyScoreFactor          float64       `mapstructure:"easy_score_factor"`
	WinScore                 float64       `mapstructure:"win_score"`
	DecisiveThreshold        float64       `mapstructure:"decisive_threshold"`
	NearWinMargin            float64       `mapstructure:"near_win_margin"`
	UnreachablePath          int           `mapstructure:"unreachable_path"`
	TableSize                int           `mapstructure:"table_size"`
	SearchTimeout            time.Duration `mapstructure:"search_timeout"`
	Weights                  WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig holds evaluation weights
type WeightsConfig struct {
	PathDiff       float64 `mapstructure:"path_diff"`
	WallDiff       float64 `mapstructure:"wall_diff"`
	Flexibility    float64 `mapstructure:"flexibility"`
	Positional     float64 `mapstructure:"positional"`
	WallEfficiency float64 `mapstructure:"wall_efficiency"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GRPCServer GRPCServerConfig `mapstructure:"grpc_server"`
	Ops        OpsConfig        `mapstructure:"ops"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	LogLevel              string `mapstructure:"log_level"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	// IdempotencyTTL is how long ApplyMove and BotMove responses are replayed for a repeated key
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// OpsConfig holds the HTTP health and stats endpoint configuration
type OpsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	VerboseLogging bool `mapstructure:"verbose_logging"`
	ColorBoard     bool `mapstructure:"color_board"`
	LogEvents      bool `mapstructure:"log_events"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.board_size", core.DefaultBoardSize)
	v.SetDefault("game.players", 2)
	v.SetDefault("game.walls_per_player", 0)
	v.SetDefault("game.bot_difficulty", "medium")

	d := bot.DefaultSettings()
	v.SetDefault("bot.easy_depth", d.EasyDepth)
	v.SetDefault("bot.medium_depth", d.MediumDepth)
	v.SetDefault("bot.hard_depth", d.HardDepth)
	v.SetDefault("bot.max_wall_candidates", d.MaxWallCandidates)
	v.SetDefault("bot.easy_skip_walls_probability", d.EasySkipWallsProbability)
	v.SetDefault("bot.easy_score_factor", d.EasyScoreFactor)
	v.SetDefault("bot.win_score", d.WinScore)
	v.SetDefault("bot.decisive_threshold", d.DecisiveThreshold)
	v.SetDefault("bot.near_win_margin", d.NearWinMargin)
	v.SetDefault("bot.unreachable_path", d.UnreachablePath)
	v.SetDefault("bot.table_size", d.TableSize)
	v.SetDefault("bot.search_timeout", "10s")
	v.SetDefault("bot.weights.path_diff", d.Weights.PathDiff)
	v.SetDefault("bot.weights.wall_diff", d.Weights.WallDiff)
	v.SetDefault("bot.weights.flexibility", d.Weights.Flexibility)
	v.SetDefault("bot.weights.positional", d.Weights.Positional)
	v.SetDefault("bot.weights.wall_efficiency", d.Weights.WallEfficiency)

	v.SetDefault("server.grpc_server.host", "0.0.0.0")
	v.SetDefault("server.grpc_server.port", 50051)
	v.SetDefault("server.grpc_server.log_level", "info")
	v.SetDefault("server.grpc_server.enable_reflection", true)
	v.SetDefault("server.grpc_server.graceful_shutdown_delay", 5)
	v.SetDefault("server.grpc_server.idempotency_ttl", "5m")

	v.SetDefault("server.ops.enabled", true)
	v.SetDefault("server.ops.host", "0.0.0.0")
	v.SetDefault("server.ops.port", 8081)

	v.SetDefault("development.verbose_logging", false)
	v.SetDefault("development.color_board", true)
	v.SetDefault("development.log_events", false)
}

// Init initializes the configuration. A .env file in the working directory
// is loaded first so its values reach the QRD_ environment overrides.
func Init(configPath string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	nv := viper.New()
	setViperDefaults(nv)

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		nv.AddConfigPath(".")
		nv.AddConfigPath("./config")
		nv.AddConfigPath("/etc/quoridor")
	}

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if err := nv.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("error reading config file: %w", err)
	}

	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	mu.Lock()
	cfg, v = c, nv
	mu.Unlock()
	return nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
		mu.RLock()
		c = cfg
		mu.RUnlock()
	}
	return c
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// isNotFound reports a missing config file, whether it came from the search
// paths or from an explicit path. Missing files fall back to defaults.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// reload decodes src's current values into a fresh Config and swaps it in
// while src is still the active instance. Callers hold mu.
func reload(src *viper.Viper) error {
	c := &Config{}
	if err := src.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if src == v {
		cfg = c
	}
	return nil
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working directory
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()

	envFile := fmt.Sprintf("config.%s.yaml", env)
	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}
	return reload(v)
}

// Set allows runtime config updates
func Set(key string, value interface{}) error {
	mu.Lock()
	defer mu.Unlock()
	v.Set(key, value)
	return reload(v)
}

// GetString gets a string value from config
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return GetViper().GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return GetViper().GetFloat64(key)
}

// GetDuration gets a duration value from config
func GetDuration(key string) time.Duration {
	return GetViper().GetDuration(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives the
// error from decoding the new file; the previous config stays active on error.
func WatchConfig(onChange func(error)) {
	wv := GetViper()
	wv.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		err := reload(wv)
		mu.Unlock()
		if onChange != nil {
			onChange(err)
		}
	})
	wv.WatchConfig()
}

// BotSettings converts the bot section into search settings
func (c *Config) BotSettings() bot.Settings {
	b := c.Bot
	return bot.Settings{
		EasyDepth:                b.EasyDepth,
		MediumDepth:              b.MediumDepth,
		HardDepth:                b.HardDepth,
		MaxWallCandidates:        b.MaxWallCandidates,
		EasySkipWallsProbability: b.EasySkipWallsProbability,
		EasyScoreFactor:          b.EasyScoreFactor,
		WinScore:                 b.WinScore,
		DecisiveThreshold:        b.DecisiveThreshold,
		NearWinMargin:            b.NearWinMargin,
		UnreachablePath:          b.UnreachablePath,
		TableSize:                b.TableSize,
		Weights: bot.Weights{
			PathDiff:       b.Weights.PathDiff,
			WallDiff:       b.Weights.WallDiff,
			Flexibility:    b.Weights.Flexibility,
			Positional:     b.Weights.Positional,
			WallEfficiency: b.Weights.WallEfficiency,
		},
	}
}

// GameSettings builds table settings from the game section: seat 0 is human
// and every other seat is a bot unless allBots is set.
func (c *Config) GameSettings(allBots bool) (core.Settings, error) {
	d, err := core.ParseDifficulty(c.Game.BotDifficulty)
	if err != nil {
		return core.Settings{}, err
	}
	seats := make([]core.SeatConfig, c.Game.Players)
	for i := range seats {
		if i == 0 && !allBots {
			seats[i] = core.SeatConfig{Controller: core.Human}
			continue
		}
		seats[i] = core.SeatConfig{Controller: core.Bot, Difficulty: d}
	}
	return core.Settings{
		BoardSize:      c.Game.BoardSize,
		Seats:          seats,
		WallsPerPlayer: c.Game.WallsPerPlayer,
	}, nil
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if !core.IsSupportedBoardSize(c.Game.BoardSize) {
		return fmt.Errorf("game.board_size must be one of %v", core.SupportedBoardSizes)
	}
	if c.Game.Players < 2 || c.Game.Players > 4 {
		return fmt.Errorf("game.players must be between 2 and 4")
	}
	if c.Game.WallsPerPlayer < 0 {
		return fmt.Errorf("game.walls_per_player must be non-negative")
	}
	if _, err := core.ParseDifficulty(c.Game.BotDifficulty); err != nil {
		return fmt.Errorf("game.bot_difficulty: %w", err)
	}

	if err := c.BotSettings().Validate(); err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	if c.Bot.SearchTimeout < 0 {
		return fmt.Errorf("bot.search_timeout must be non-negative")
	}

	if c.Server.GRPCServer.Port <= 0 || c.Server.GRPCServer.Port > 65535 {
		return fmt.Errorf("server.grpc_server.port must be between 1 and 65535")
	}
	if c.Server.GRPCServer.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc_server.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.GRPCServer.IdempotencyTTL < 0 {
		return fmt.Errorf("server.grpc_server.idempotency_ttl must be non-negative")
	}
	if c.Server.Ops.Enabled && (c.Server.Ops.Port <= 0 || c.Server.Ops.Port > 65535) {
		return fmt.Errorf("server.ops.port must be between 1 and 65535")
	}
	return nil
}
