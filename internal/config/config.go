package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Behyna/whatsapp-relay/pkg/clint"
	"github.com/Behyna/whatsapp-relay/pkg/database"
	"github.com/Behyna/whatsapp-relay/pkg/mq"
	"github.com/Behyna/whatsapp-relay/pkg/zapi"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "RELAY"

type Config struct {
	API       API             `mapstructure:"api"`
	Database  database.Config `mapstructure:"database"`
	ZAPI      zapi.Config     `mapstructure:"zapi"`
	Clint     clint.Config    `mapstructure:"clint"`
	RabbitMQ  mq.Config       `mapstructure:"rabbitmq"`
	Gateway   Gateway         `mapstructure:"gateway"`
	History   History         `mapstructure:"history"`
	Sync      Sync            `mapstructure:"sync"`
	Bulk      Bulk            `mapstructure:"bulk"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Metrics   Metrics         `mapstructure:"metrics"`
}

type API struct {
	Port         string `mapstructure:"port"`
	WebhookToken string `mapstructure:"webhook_token"`
	ServiceName  string `mapstructure:"service_name"`
}

type Gateway struct {
	MaxRetry           int           `mapstructure:"max_retry"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RetryBackoff       time.Duration `mapstructure:"retry_backoff"`
	ConnectionCacheTTL time.Duration `mapstructure:"connection_cache_ttl"`
	Pacing             bool          `mapstructure:"pacing"`
}

type History struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	// MarkActiveOnReceive marks the sender ACTIVE when a message arrives.
	MarkActiveOnReceive bool `mapstructure:"mark_active_on_receive"`
}

type Sync struct {
	Interval time.Duration `mapstructure:"interval"`
	PageSize int           `mapstructure:"page_size"`
	MaxPages int           `mapstructure:"max_pages"`
}

type Bulk struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	Queue         string  `mapstructure:"queue"`
}

type Scheduler struct {
	Enabled  bool   `mapstructure:"enabled"`
	Timezone string `mapstructure:"timezone"`
}

type Metrics struct {
	Enabled         bool          `mapstructure:"enabled"`
	CollectInterval time.Duration `mapstructure:"collect_interval"`
}

func Load() (cfg *Config, err error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath("./config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.service_name", "whatsapp-relay")
	v.SetDefault("database.driver", database.DriverSQLite)
	v.SetDefault("database.path", "relay.db")
	v.SetDefault("zapi.base_url", "https://api.z-api.io")
	v.SetDefault("zapi.timeout", 30*time.Second)
	v.SetDefault("clint.base_url", "https://api.clint.digital/v1")
	v.SetDefault("clint.timeout", 30*time.Second)
	v.SetDefault("rabbitmq.retry_delay", 30*time.Second)
	v.SetDefault("rabbitmq.max_redeliveries", 5)
	v.SetDefault("gateway.max_retry", 3)
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.retry_backoff", 500*time.Millisecond)
	v.SetDefault("gateway.connection_cache_ttl", 30*time.Second)
	v.SetDefault("history.default_limit", 100)
	v.SetDefault("history.max_limit", 1000)
	v.SetDefault("history.mark_active_on_receive", true)
	v.SetDefault("sync.interval", time.Hour)
	v.SetDefault("sync.page_size", 200)
	v.SetDefault("sync.max_pages", 50)
	v.SetDefault("bulk.rate_per_second", 0.5)
	v.SetDefault("bulk.burst", 1)
	v.SetDefault("bulk.queue", "whatsapp.send")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.collect_interval", 15*time.Second)
}
