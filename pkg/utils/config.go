package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Chapa    ChapaConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Email    EmailConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type ChapaConfig struct {
	BaseURL     string
	SecretKey   string
	Currency    string
	CallbackURL string
	ReturnURL   string
	Timeout     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QueueConfig selects the notification queue backend ("redis" or "memory").
type QueueConfig struct {
	Driver      string
	Key         string
	MaxAttempts int
	BufferSize  int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads path (dotenv format) and overlays the process
// environment. A missing file is not an error.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "lodgr")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("CHAPA_BASE_URL", "https://api.chapa.co/v1")
	v.SetDefault("CHAPA_CURRENCY", "ETB")
	v.SetDefault("CHAPA_TIMEOUT_SECONDS", 15)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QUEUE_DRIVER", "redis")
	v.SetDefault("QUEUE_KEY", "lodgr:notifications")
	v.SetDefault("QUEUE_MAX_ATTEMPTS", 5)
	v.SetDefault("QUEUE_BUFFER_SIZE", 256)
	v.SetDefault("SMTP_PORT", 465)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Chapa: ChapaConfig{
			BaseURL:     v.GetString("CHAPA_BASE_URL"),
			SecretKey:   v.GetString("CHAPA_SECRET_KEY"),
			Currency:    v.GetString("CHAPA_CURRENCY"),
			CallbackURL: v.GetString("CHAPA_CALLBACK_URL"),
			ReturnURL:   v.GetString("CHAPA_RETURN_URL"),
			Timeout:     time.Duration(v.GetInt("CHAPA_TIMEOUT_SECONDS")) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Queue: QueueConfig{
			Driver:      v.GetString("QUEUE_DRIVER"),
			Key:         v.GetString("QUEUE_KEY"),
			MaxAttempts: v.GetInt("QUEUE_MAX_ATTEMPTS"),
			BufferSize:  v.GetInt("QUEUE_BUFFER_SIZE"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
	}

	return config, nil
}
