package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Store drivers.
const (
	DriverPostgres     = "postgres"
	DriverGormPostgres = "gorm-postgres"
	DriverSQLite       = "sqlite"
	DriverMemory       = "memory"
)

type Config struct {
	DB          DBConfig       `koanf:"db"`
	Store       StoreConfig    `koanf:"store"`
	Redis       RedisConfig    `koanf:"redis"`
	HTTP        HTTPConfig     `koanf:"http"`
	Telegram    TelegramConfig `koanf:"telegram"`
	Log         LogConfig      `koanf:"log"`
	AutoMigrate bool           `koanf:"auto_migrate"`
}

type DBConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
}

// DSN renders a postgres URL usable by both pgx and the gorm driver.
// Credentials and the database name are escaped.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

type StoreConfig struct {
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
}

type RedisConfig struct {
	Addr string        `koanf:"addr"` // empty disables the catalog cache
	TTL  time.Duration `koanf:"ttl"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type TelegramConfig struct {
	Token         string `koanf:"token"` // empty disables the bot
	RatePerMinute int    `koanf:"rate_per_minute"`
}

type LogConfig struct {
	Mode string `koanf:"mode"`
}

func defaults() Config {
	return Config{
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "foodpick",
			SSLMode:  "disable",
		},
		Store: StoreConfig{
			Driver:     DriverPostgres,
			SQLitePath: "foodpick.db",
		},
		Redis: RedisConfig{
			TTL: 5 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Telegram: TelegramConfig{
			RatePerMinute: 20,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins). A .env file in
// the working directory is loaded into the environment first.
//
// Environment names map onto keys by their first underscore:
// DB_HOST -> db.host, STORE_SQLITE_PATH -> store.sqlite_path, AUTO_MIGRATE -> auto_migrate.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var sections = map[string]bool{
	"db": true, "store": true, "redis": true, "http": true, "telegram": true, "log": true,
}

func envKey(s string) string {
	s = strings.ToLower(s)
	section, rest, ok := strings.Cut(s, "_")
	if ok && sections[section] {
		return section + "." + rest
	}
	return s
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverGormPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.Telegram.RatePerMinute <= 0 {
		return fmt.Errorf("telegram rate_per_minute must be > 0")
	}
	return nil
}
