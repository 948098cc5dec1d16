package config

import (
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QuotaConfig struct {
	Enabled           bool  `mapstructure:"enabled"`
	OrdersPerDay      int64 `mapstructure:"orders_per_day"`
	ClockEventsPerDay int64 `mapstructure:"clock_events_per_day"`
}

type SchedulerConfig struct {
	Enabled                 bool `mapstructure:"enabled"`
	LoyaltyEvaluateInterval int  `mapstructure:"loyalty_evaluate_interval_minutes"`
}

type TelemetryConfig struct {
	TracingEnabled bool   `mapstructure:"tracing_enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load reads config.yaml from the working directory when present and applies
// FORKAST_* environment overrides on top of the defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("FORKAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "forkast.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("quota.enabled", false)
	v.SetDefault("quota.orders_per_day", 5000)
	v.SetDefault("quota.clock_events_per_day", 1000)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.loyalty_evaluate_interval_minutes", 60)
	v.SetDefault("telemetry.tracing_enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.metrics_enabled", true)
}
