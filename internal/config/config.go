package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Storage  StorageConfig  `toml:"storage"`
	SQLite   SQLiteConfig   `toml:"sqlite"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Booking  BookingConfig  `toml:"booking"`
	Gallery  GalleryConfig  `toml:"gallery"`
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	Seed     SeedConfig     `toml:"seed"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Pretty bool   `toml:"pretty"`
}

// StorageConfig выбор хранилища: локальный sqlite файл или удалённый postgres
type StorageConfig struct {
	Driver string `toml:"driver"`
}

type SQLiteConfig struct {
	Path string `toml:"path"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig блокировка дня при создании бронирования. Если выключено, используется локальный мьютекс
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockTTLMs  int    `toml:"lock_ttl_ms"`
	LockWaitMs int    `toml:"lock_wait_ms"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig единый PIN администратора хранится как bcrypt-хеш
type AuthConfig struct {
	AdminPinHash    string `toml:"admin_pin_hash"`
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

type BookingConfig struct {
	// StrictStatusTransitions false разрешает переводить бронирование в любой статус
	StrictStatusTransitions bool `toml:"strict_status_transitions"`
}

type GalleryConfig struct {
	Dir          string `toml:"dir"`
	MaxUploadMB  int    `toml:"max_upload_mb"`
	ThumbWidth   int    `toml:"thumb_width"`
	PublicPrefix string `toml:"public_prefix"`
}

type WhatsAppConfig struct {
	BaseURL string `toml:"base_url"`
}

type SeedConfig struct {
	File string `toml:"file"`
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{
		Booking: BookingConfig{StrictStatusTransitions: true},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env не обязателен
	_ = godotenv.Load(envFiles...)

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.Driver = getEnv("SALON_STORAGE_DRIVER", c.Storage.Driver)
	c.SQLite.Path = getEnv("SALON_SQLITE_PATH", c.SQLite.Path)
	c.Database.Host = getEnv("SALON_DB_HOST", c.Database.Host)
	c.Database.Password = getEnv("SALON_DB_PASSWORD", c.Database.Password)
	c.Redis.Addr = getEnv("SALON_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("SALON_REDIS_PASSWORD", c.Redis.Password)
	c.Auth.AdminPinHash = getEnv("SALON_ADMIN_PIN_HASH", c.Auth.AdminPinHash)
	c.Auth.JWTSecret = getEnv("SALON_JWT_SECRET", c.Auth.JWTSecret)
	c.Server.HTTPPort = getEnvInt("SALON_HTTP_PORT", c.Server.HTTPPort)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefaultString(&c.Logs.Level, "info")
	setDefaultString(&c.Storage.Driver, DriverSQLite)
	setDefaultString(&c.SQLite.Path, "salon.db")

	setDefault(&c.Database.Port, 5432)
	setDefaultString(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 10)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefaultString(&c.Redis.Addr, "127.0.0.1:6379")
	setDefault(&c.Redis.LockTTLMs, 5000)
	setDefault(&c.Redis.LockWaitMs, 3000)

	setDefaultString(&c.Metrics.Path, "/metrics")
	setDefaultString(&c.Metrics.ServiceName, "salon_booking")

	setDefault(&c.Auth.TokenTTLMinutes, 720)

	setDefaultString(&c.Gallery.Dir, "uploads/gallery")
	setDefault(&c.Gallery.MaxUploadMB, 10)
	setDefault(&c.Gallery.ThumbWidth, 400)
	setDefaultString(&c.Gallery.PublicPrefix, "/uploads/gallery")

	setDefaultString(&c.WhatsApp.BaseURL, "https://wa.me")
}

// Validate проверяет непротиворечивость конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("%w: sqlite.path is required", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Auth.AdminPinHash == "" {
		return fmt.Errorf("%w: auth.admin_pin_hash is required", ErrInvalidConfig)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setDefaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
