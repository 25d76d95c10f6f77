// Package config loads service configuration from config.yaml, .env files and
// ROOMLEDGER_-prefixed environment variables, in increasing order of
// precedence.
package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QuotaConfig struct {
	Enabled             bool  `mapstructure:"enabled"`
	MaxProperties       int64 `mapstructure:"max_properties"`
	MaxTenancies        int64 `mapstructure:"max_tenancies"`
	CalculationsMonthly int64 `mapstructure:"calculations_monthly"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	HTTP  HTTPConfig  `mapstructure:"http"`
	DB    DBConfig    `mapstructure:"db"`
	Redis RedisConfig `mapstructure:"redis"`
	Quota QuotaConfig `mapstructure:"quota"`
	Log   LogConfig   `mapstructure:"log"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:roomledger.db?cache=shared")
	v.SetDefault("redis.addr", "")
	v.SetDefault("quota.enabled", false)
	v.SetDefault("quota.max_properties", 0)
	v.SetDefault("quota.max_tenancies", 0)
	v.SetDefault("quota.calculations_monthly", 0)
	v.SetDefault("log.level", "info")
}

// Load reads the configuration once and keeps watching config.yaml so that
// quota knobs can be adjusted without a restart. Callers that need the live
// values go through Provider.
func Load() (Config, *Provider, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/roomledger")
	v.SetEnvPrefix("ROOMLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, nil, err
	}

	p := &Provider{}
	p.current.Store(&cfg)

	v.OnConfigChange(func(_ fsnotify.Event) {
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			zap.L().Warn("config reload failed", zap.Error(err))
			return
		}
		p.current.Store(&next)
		zap.L().Info("config reloaded")
	})
	v.WatchConfig()

	return cfg, p, nil
}

// Provider hands out the most recently loaded configuration.
type Provider struct {
	current atomic.Pointer[Config]
}

// StaticProvider wraps a fixed configuration. Reloading never happens; it is
// meant for tests and one-shot commands.
func StaticProvider(cfg Config) *Provider {
	p := &Provider{}
	p.current.Store(&cfg)
	return p
}

func (p *Provider) Current() Config {
	if c := p.current.Load(); c != nil {
		return *c
	}
	return Config{}
}
