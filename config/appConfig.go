package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"time"
)

// OzonConfig -- учётные данные продавца и поведение клиента.
type OzonConfig struct {
	ClientID string `yaml:"client_id" validate:"required"`
	ApiKey   string `yaml:"api_key" validate:"required"`
	ApiURL   string `yaml:"api_url" validate:"required,url"`
	// ValidateBeforeSend -- проверять товары до отправки.
	ValidateBeforeSend bool          `yaml:"validate_before_send"`
	StrictBatches      bool          `yaml:"strict_batches"`
	Timeout            time.Duration `yaml:"timeout" validate:"gte=0"`
}

type LimitsConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" validate:"gte=0"`
	Burst             int `yaml:"burst" validate:"gte=0"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type FeedConfig struct {
	Encoding  string `yaml:"encoding" validate:"oneof=utf-8 windows-1251"`
	Separator string `yaml:"separator" validate:"len=1"`
}

type WatcherConfig struct {
	Interval time.Duration `yaml:"interval" validate:"gte=0"`

	// MaxAttempts -- сколько неудачных опросов подряд терпит задача; 0 без ограничения.
	MaxAttempts int `yaml:"max_attempts" validate:"gte=0"`
}

type AppConfig struct {
	Ozon     OzonConfig     `yaml:"ozon"`
	Postgres PostgresConfig `yaml:"postgres"`
	Limits   LimitsConfig   `yaml:"limits"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Feed     FeedConfig     `yaml:"feed"`
	Watcher  WatcherConfig  `yaml:"watcher"`
}

var validate = validator.New()

// LoadConfig читает YAML, затем .env и переменные окружения поверх него.
func LoadConfig(filename string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := defaultConfig()
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
		}
	}

	config.applyEnv()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Ozon: OzonConfig{
			ApiURL:             "https://api-seller.ozon.ru",
			ValidateBeforeSend: true,
			Timeout:            30 * time.Second,
		},
		Postgres: PostgresConfig{
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			DBName: "postgres",
		},
		Limits:  LimitsConfig{RequestsPerMinute: 60, Burst: 1},
		Metrics: MetricsConfig{Addr: ":8082"},
		Feed:    FeedConfig{Encoding: "windows-1251", Separator: ";"},
		Watcher: WatcherConfig{Interval: time.Minute, MaxAttempts: 30},
	}
}
