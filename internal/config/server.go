package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds the settings of the HTTP API binary. Every key can be
// set from the environment with the HPWH_ prefix, e.g. HPWH_PORT=9090.
type ServerConfig struct {
	Port        int     `mapstructure:"port"`
	Env         string  `mapstructure:"env"`
	StaticDir   string  `mapstructure:"static_dir"`
	DeviceDir   string  `mapstructure:"device_dir"`
	ProfileDir  string  `mapstructure:"profile_dir"`
	DataDir     string  `mapstructure:"data_dir"` // weather and CO2 files named by requests
	CatalogPath string  `mapstructure:"catalog_path"`
	CacheSize   int     `mapstructure:"cache_size"`
	RateLimit   float64 `mapstructure:"rate_limit"` // requests/second on simulation routes
	RateBurst   int     `mapstructure:"rate_burst"`
	LogLevel    string  `mapstructure:"log_level"`
	LogFormat   string  `mapstructure:"log_format"`
}

func (s ServerConfig) IsProduction() bool { return s.Env == "production" }

// LoadServer reads server settings from the environment and, when path is
// non-empty, from a config file (any format viper understands).
func LoadServer(path string) (*ServerConfig, error) {
	v := viper.New()
	setServerDefaults(v)

	v.SetEnvPrefix("HPWH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	var sc ServerConfig
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}
	if sc.Port <= 0 || sc.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", sc.Port)
	}
	if sc.CacheSize <= 0 {
		return nil, fmt.Errorf("cache_size must be > 0, got %d", sc.CacheSize)
	}
	return &sc, nil
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("env", "development")
	v.SetDefault("static_dir", "")
	v.SetDefault("device_dir", "examples/devices")
	v.SetDefault("profile_dir", "examples/profiles")
	v.SetDefault("data_dir", "examples/data")
	v.SetDefault("catalog_path", "")
	v.SetDefault("cache_size", 64)
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("rate_burst", 10)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}
