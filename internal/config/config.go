package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Symbols     []string           `mapstructure:"symbols"`
	Multipliers map[string]float64 `mapstructure:"multipliers"`
	Gamma       GammaConfig        `mapstructure:"gamma"`
	Provider    ProviderConfig     `mapstructure:"provider"`
	Server      ServerConfig       `mapstructure:"server"`
	Schedule    ScheduleConfig     `mapstructure:"schedule"`
	Journal     JournalConfig      `mapstructure:"journal"`
	Logging     LoggingConfig      `mapstructure:"logging"`
}

type GammaConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	CacheTTLMinutes    int     `mapstructure:"cache_ttl_minutes"`
	ModerateUSD        float64 `mapstructure:"moderate_usd"`
	HighUSD            float64 `mapstructure:"high_usd"`
	ExtremeUSD         float64 `mapstructure:"extreme_usd"`
	WallFallbackWidth  float64 `mapstructure:"wall_fallback_width"`
	ScoreCap           int     `mapstructure:"score_cap"`
	StrengthMultiplier float64 `mapstructure:"strength_multiplier"`
}

type ProviderConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	TimeoutSec    int    `mapstructure:"timeout_sec"`
	RetryCount    int    `mapstructure:"retry_count"`
	RetryDelaySec int    `mapstructure:"retry_delay_sec"`
	RatePerSecond int    `mapstructure:"rate_per_second"`
	FetchWorkers  int    `mapstructure:"fetch_workers"`
}

type ServerConfig struct {
	Port              string `mapstructure:"port"`
	StreamIntervalSec int    `mapstructure:"stream_interval_sec"`
}

type ScheduleConfig struct {
	IntervalMinutes int    `mapstructure:"interval_minutes"`
	Timezone        string `mapstructure:"timezone"`
	OpenHour        int    `mapstructure:"open_hour"`
	OpenMinute      int    `mapstructure:"open_minute"`
	CloseHour       int    `mapstructure:"close_hour"`
	CloseMinute     int    `mapstructure:"close_minute"`
}

type JournalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("symbols", []string{"SPX", "SPY", "QQQ"})
	v.SetDefault("multipliers", map[string]float64{"SPX": 10, "XSP": 10, "RUT": 10})
	v.SetDefault("gamma.enabled", true)
	v.SetDefault("gamma.cache_ttl_minutes", 5)
	v.SetDefault("gamma.moderate_usd", 500e6)
	v.SetDefault("gamma.high_usd", 1e9)
	v.SetDefault("gamma.extreme_usd", 5e9)
	v.SetDefault("gamma.wall_fallback_width", 50)
	v.SetDefault("gamma.score_cap", 20)
	v.SetDefault("gamma.strength_multiplier", 1.5)
	v.SetDefault("provider.base_url", "https://chain.magic8.io")
	v.SetDefault("provider.timeout_sec", 30)
	v.SetDefault("provider.retry_count", 3)
	v.SetDefault("provider.retry_delay_sec", 5)
	v.SetDefault("provider.rate_per_second", 2)
	v.SetDefault("provider.fetch_workers", 3)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.stream_interval_sec", 60)
	v.SetDefault("schedule.interval_minutes", 30)
	v.SetDefault("schedule.timezone", "America/New_York")
	v.SetDefault("schedule.open_hour", 9)
	v.SetDefault("schedule.open_minute", 45)
	v.SetDefault("schedule.close_hour", 15)
	v.SetDefault("schedule.close_minute", 45)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.directory", "journal")
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("MAGIC8")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Explicitly bind nested keys to env vars
	_ = v.BindEnv("provider.api_key", "MAGIC8_API_KEY")

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// CacheTTL returns the analysis cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Gamma.CacheTTLMinutes) * time.Minute
}
