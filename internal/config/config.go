package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`
	Gamma  GammaConfig  `mapstructure:"gamma"`
	Sync   SyncConfig   `mapstructure:"sync"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	DailyScan string `mapstructure:"daily_scan"`
}

type GammaConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type SyncConfig struct {
	PageLimit        int  `mapstructure:"page_limit"`
	MaxPages         int  `mapstructure:"max_pages"`
	Resume           bool `mapstructure:"resume"`
	FetchClosed      bool `mapstructure:"fetch_closed"`
	FetchTags        bool `mapstructure:"fetch_tags"`
	FetchSeries      bool `mapstructure:"fetch_series"`
	FetchComments    bool `mapstructure:"fetch_comments"`
	EnrichDetails    bool `mapstructure:"enrich_details"`
	TagRelationships bool `mapstructure:"tag_relationships"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.daily_scan", "0 0 6 * * *")
	v.SetDefault("gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gamma.timeout", "15s")
	v.SetDefault("gamma.request_delay", "200ms")
	v.SetDefault("gamma.max_retries", 3)
	v.SetDefault("gamma.retry_backoff", "500ms")
	v.SetDefault("sync.page_limit", 100)
	v.SetDefault("sync.max_pages", 200)
	v.SetDefault("sync.resume", true)
	v.SetDefault("sync.fetch_closed", false)
	v.SetDefault("sync.fetch_tags", true)
	v.SetDefault("sync.fetch_series", true)
	v.SetDefault("sync.fetch_comments", false)
	v.SetDefault("sync.enrich_details", true)
	v.SetDefault("sync.tag_relationships", true)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
