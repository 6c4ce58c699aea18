package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Vault    VaultConfig    `mapstructure:"vault"`
	Session  SessionConfig  `mapstructure:"session"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
	Cron     CronConfig     `mapstructure:"cron"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// VaultConfig holds the master secret the key vault derives its AES key from.
type VaultConfig struct {
	Secret string `mapstructure:"secret"`
	Salt   string `mapstructure:"salt"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

type ChainConfig struct {
	RPCURL              string        `mapstructure:"rpc_url"`
	ChainID             int64         `mapstructure:"chain_id"` // 8453 = Base mainnet
	ReceiptTimeout      time.Duration `mapstructure:"receipt_timeout"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
}

type RecoveryConfig struct {
	Workers  int           `mapstructure:"workers"`  // 1 = sequential
	Interval time.Duration `mapstructure:"interval"` // 0 = in-process scheduler disabled
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

type CronConfig struct {
	Secret string `mapstructure:"secret"`
}

type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	AdminChatID    int64         `mapstructure:"admin_chat_id"`
	InitDataMaxAge time.Duration `mapstructure:"init_data_max_age"`
	AllowedUserIDs []int64       `mapstructure:"allowed_user_ids"`
}

type NotifyConfig struct {
	WebhookURL    string `mapstructure:"webhook_url"`
	WebhookSecret string `mapstructure:"webhook_secret"` // HMAC key for X-Signature; empty = unsigned
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: UMKM_.
// Nested keys use underscore: UMKM_DATABASE_HOST, UMKM_VAULT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "umkm_terminal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("vault.secret", "")
	v.SetDefault("vault.salt", "umkm-terminal")
	v.SetDefault("session.cookie_name", "umkm_session")
	v.SetDefault("session.ttl", "168h")
	v.SetDefault("session.secure", true)
	v.SetDefault("chain.rpc_url", "https://mainnet.base.org")
	v.SetDefault("chain.chain_id", 8453)
	v.SetDefault("chain.receipt_timeout", "2m")
	v.SetDefault("chain.receipt_poll_interval", "2s")
	v.SetDefault("recovery.workers", 1)
	v.SetDefault("recovery.interval", "0s")
	v.SetDefault("recovery.lock_ttl", "5m")
	v.SetDefault("cron.secret", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("telegram.init_data_max_age", "24h")
	v.SetDefault("telegram.allowed_user_ids", []int64{})
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.webhook_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// UMKM_DATABASE_HOST -> database.host
	v.SetEnvPrefix("UMKM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional; env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Vault.Secret == "" {
		errs = append(errs, errors.New("vault.secret is required"))
	}
	if c.Cron.Secret == "" {
		errs = append(errs, errors.New("cron.secret is required"))
	}
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("telegram.bot_token is required"))
	}
	if c.Chain.RPCURL == "" {
		errs = append(errs, errors.New("chain.rpc_url is required"))
	}
	if c.Chain.ReceiptTimeout <= 0 {
		errs = append(errs, errors.New("chain.receipt_timeout must be positive"))
	}
	if c.Recovery.Workers < 1 {
		errs = append(errs, errors.New("recovery.workers must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsAllowed reports whether a Telegram user may use the app. An empty
// allow-list admits everyone.
func (t TelegramConfig) IsAllowed(telegramUserID int64) bool {
	if len(t.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range t.AllowedUserIDs {
		if id == telegramUserID {
			return true
		}
	}
	return false
}
