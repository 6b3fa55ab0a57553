package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageSqlite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	ListenAddr     string         `yaml:"listen_addr"`
	BackendURL     string         `yaml:"backend_url"`
	BackendTimeout time.Duration  `yaml:"backend_timeout"`
	CartStorage    string         `yaml:"cart_storage"`
	CartTTL        time.Duration  `yaml:"cart_ttl"`
	SessionIdleTTL time.Duration  `yaml:"session_idle_ttl"`
	Sqlite         SqliteConfig   `yaml:"sqlite"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
}

type SqliteConfig struct {
	Path string `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		BackendURL:     "http://localhost:8001/api",
		BackendTimeout: 15 * time.Second,
		CartStorage:    StorageSqlite,
		CartTTL:        24 * time.Hour,
		SessionIdleTTL: 30 * time.Minute,
		Sqlite:         SqliteConfig{Path: "foodhub.db"},
		Database:       DatabaseConfig{Host: "localhost", Port: "5432"},
		Redis:          RedisConfig{Host: "localhost", Port: "6379"},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by FOODHUB_CONFIG and finally the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Load: .env: %v", err)
	}
	cfg := Default()
	if path := os.Getenv("FOODHUB_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.BackendURL, "BACKEND_URL")
	setString(&c.CartStorage, "CART_STORAGE")
	setString(&c.Sqlite.Path, "SQLITE_PATH")
	setString(&c.Database.Host, "DATABASE_HOST")
	setString(&c.Database.Port, "DATABASE_PORT")
	setString(&c.Database.User, "DATABASE_USER")
	setString(&c.Database.Password, "DATABASE_PASSWORD")
	setString(&c.Database.Name, "DATABASE_NAME")
	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	if err := setDuration(&c.BackendTimeout, "BACKEND_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.CartTTL, "CART_TTL"); err != nil {
		return err
	}
	return setDuration(&c.SessionIdleTTL, "SESSION_IDLE_TTL")
}

func (c Config) Validate() error {
	switch c.CartStorage {
	case StorageSqlite, StoragePostgres, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown cart storage %q", c.CartStorage)
	}
	if c.BackendURL == "" {
		return errors.New("backend url must be set")
	}
	if c.SessionIdleTTL <= 0 {
		return errors.New("session idle ttl must be positive")
	}
	return nil
}

// PostgresDSN uses the same connection string shape as the DATABASE_* env.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func (c Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
