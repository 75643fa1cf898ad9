package config

import (
	"os"
	"strings"
	"time"

	// Loads .env before the configuration is read in init.
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	// DefaultInputPath is the dataset read when input.path is not configured.
	DefaultInputPath = "2500 tv shows dataset/TV_show_data (2).csv"
	// DefaultOutputPath is where the cleaned dataset is written when output.path is not configured.
	DefaultOutputPath = "2500 tv shows dataset/TV_shows_cleaned.csv"
	// DefaultKeyColumn identifies a show for the key-based duplicate pass.
	DefaultKeyColumn = "Name"
)

type Config struct {
	Input struct {
		Path      string `mapstructure:"path"`
		Encoding  string `mapstructure:"encoding"` // WHATWG label like "utf-8", "windows-1252"
		KeyColumn string `mapstructure:"key_column"`
	} `mapstructure:"input"`
	Output struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"output"`
	Report struct {
		TopN     int `mapstructure:"top_n"`
		Examples int `mapstructure:"examples"`
	} `mapstructure:"report"`
	LogLevel  string `mapstructure:"log_level"`
	SentryDSN string `mapstructure:"sentry_dsn"`
	Metrics   struct {
		Enabled  bool   `mapstructure:"enabled"`
		Port     int    `mapstructure:"port"`
		Textfile string `mapstructure:"textfile"`
	} `mapstructure:"metrics"`
	Server struct {
		Port         int    `mapstructure:"port"`
		GRPCPort     int    `mapstructure:"grpc_port"`
		Address      string `mapstructure:"address"`
		MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
	} `mapstructure:"server"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`
		TTL      string `mapstructure:"ttl"` // Go duration string like "1h", "24h", etc.
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	History struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"history"`
	Schedule struct {
		Cron string `mapstructure:"cron"`
	} `mapstructure:"schedule"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

// LoadConfig reads config.yaml from the working directory (or ./config) and
// overlays APP_* environment variables on top of the defaults.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry_dsn", "SENTRY_DSN")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Input.KeyColumn == "" {
		config.Input.KeyColumn = DefaultKeyColumn
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("input.path", DefaultInputPath)
	viper.SetDefault("input.encoding", "utf-8")
	viper.SetDefault("input.key_column", DefaultKeyColumn)
	viper.SetDefault("output.path", DefaultOutputPath)
	viper.SetDefault("report.top_n", 5)
	viper.SetDefault("report.examples", 20)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("sentry_dsn", "")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("metrics.textfile", "")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.grpc_port", 8081)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("server.max_body_bytes", 32<<20)
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 128)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.redis.address", "")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", "data/history.db")
	viper.SetDefault("schedule.cron", "")
}

// CacheTTL parses Cache.TTL, falling back to one hour when it is empty or invalid.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return time.Hour
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		logger.Warn().Str("ttl", c.Cache.TTL).Msg("Invalid cache TTL, using default 1h")
		return time.Hour
	}
	return ttl
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
