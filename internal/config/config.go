package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/rupture-cli/internal/distance"
	"github.com/sells-group/rupture-cli/internal/projection"
)

// Config holds the full application configuration.
type Config struct {
	Distance DistanceConfig `yaml:"distance" mapstructure:"distance"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Trace    TraceConfig    `yaml:"trace" mapstructure:"trace"`
}

// DistanceConfig configures the distance dispatcher.
type DistanceConfig struct {
	Limit         float64 `yaml:"limit" mapstructure:"limit"`
	Workers       int     `yaml:"workers" mapstructure:"workers"`
	Projection    string  `yaml:"projection" mapstructure:"projection"`
	EarthRadiusKm float64 `yaml:"earth_radius_km" mapstructure:"earth_radius_km"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	Burst          int      `yaml:"burst" mapstructure:"burst"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxCells       int      `yaml:"max_cells" mapstructure:"max_cells"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TraceConfig configures OpenTelemetry tracing.
type TraceConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter    string  `yaml:"exporter" mapstructure:"exporter"` // "stdout" only for now
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RUPTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("distance.limit", distance.DistanceLimit)
	v.SetDefault("distance.workers", 4)
	v.SetDefault("distance.projection", projection.NameEquidistant)
	v.SetDefault("distance.earth_radius_km", projection.EarthRadiusKm)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.max_body_bytes", 8<<20)
	v.SetDefault("server.max_cells", 5_000_000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.exporter", "stdout")
	v.SetDefault("trace.service_name", "rupture-cli")
	v.SetDefault("trace.sample_ratio", 1.0)

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

// Validate checks the settings a command needs. Mode is "distances" for
// the batch commands or "serve" for the HTTP server.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "distances":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit <= 0 {
			errs = append(errs, "server.rate_limit must be > 0")
		}
		if c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1")
		}
		if c.Server.MaxCells < 1 {
			errs = append(errs, "server.max_cells must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Distance.Limit <= 0 {
		errs = append(errs, "distance.limit must be > 0")
	}
	if c.Distance.Workers < 1 || c.Distance.Workers > 256 {
		errs = append(errs, "distance.workers must be between 1 and 256")
	}
	if c.Distance.EarthRadiusKm <= 0 {
		errs = append(errs, "distance.earth_radius_km must be > 0")
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		errs = append(errs, "trace.sample_ratio must be between 0 and 1")
	}
	if _, err := c.Projection(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Projection builds the configured projection.
func (c *Config) Projection() (projection.Projection, error) {
	return projection.New(c.Distance.Projection, c.Distance.EarthRadiusKm)
}

// Dispatcher builds a distance dispatcher from the configured projection,
// limit and worker bound.
func (c *Config) Dispatcher() (*distance.Dispatcher, error) {
	proj, err := c.Projection()
	if err != nil {
		return nil, eris.Wrap(err, "config: projection")
	}
	return distance.NewDispatcher(proj,
		distance.WithLimit(c.Distance.Limit),
		distance.WithWorkers(c.Distance.Workers),
	), nil
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
