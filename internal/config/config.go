package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Tiger    TigerConfig    `yaml:"tiger" mapstructure:"tiger"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
	Clip     ClipConfig     `yaml:"clip" mapstructure:"clip"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TigerConfig configures which TIGER/Line vintage to pull and from where.
type TigerConfig struct {
	Year      int  `yaml:"year" mapstructure:"year"`
	UseMirror bool `yaml:"use_mirror" mapstructure:"use_mirror"`
}

// CacheConfig configures the local download cache.
type CacheConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures where clipped shapefiles are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the SQLite run ledger.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PostgresConfig configures the optional PostGIS sink.
type PostgresConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// ClipConfig configures clip execution.
type ClipConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TIGERCLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("tiger.year", 2020)
	v.SetDefault("tiger.use_mirror", false)
	v.SetDefault("cache.dir", "/tmp/tiger-clip")
	v.SetDefault("output.dir", ".")
	v.SetDefault("store.path", "tiger-clip.db")
	v.SetDefault("postgres.schema", "gis_clip")
	v.SetDefault("postgres.batch_size", 50000)
	v.SetDefault("clip.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks configuration for the given mode ("clip" or "pgload").
func (c *Config) Validate(mode string) error {
	var problems []string

	// TIGER/Line starts at 2007; the layer directory layout used here is
	// stable from 2011 on.
	if c.Tiger.Year < 2011 {
		problems = append(problems, "tiger.year must be >= 2011")
	}
	if c.Clip.Concurrency < 1 || c.Clip.Concurrency > 16 {
		problems = append(problems, "clip.concurrency must be between 1 and 16")
	}
	if c.Postgres.BatchSize < 1 {
		problems = append(problems, "postgres.batch_size must be > 0")
	}

	switch mode {
	case "clip":
		if c.Cache.Dir == "" {
			problems = append(problems, "cache.dir is required")
		}
		if c.Output.Dir == "" {
			problems = append(problems, "output.dir is required")
		}
	case "pgload":
		if c.Postgres.DatabaseURL == "" {
			problems = append(problems, "postgres.database_url is required for pgload")
		}
		if c.Postgres.Schema == "" {
			problems = append(problems, "postgres.schema is required for pgload")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
