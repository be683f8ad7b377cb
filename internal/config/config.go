// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается при недопустимых значениях конфигурации
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// Config структура для хранения конфигурации приложения.
// Значения из файла переопределяются переменными окружения SOUNDWAVE_*.
type Config struct {
	CatalogFile   string  `yaml:"catalog_file" env:"SOUNDWAVE_CATALOG_FILE"`
	MediaDir      string  `yaml:"media_dir" env:"SOUNDWAVE_MEDIA_DIR"`
	DefaultVolume float64 `yaml:"default_volume" env:"SOUNDWAVE_DEFAULT_VOLUME"`
	EventBuffer   int     `yaml:"event_buffer" env:"SOUNDWAVE_EVENT_BUFFER"`
	ListenAddr    string  `yaml:"listen_addr" env:"SOUNDWAVE_LISTEN_ADDR"`
	LogLevel      string  `yaml:"log_level" env:"SOUNDWAVE_LOG_LEVEL"`
	LogFile       string  `yaml:"log_file" env:"SOUNDWAVE_LOG_FILE"`

	AwsBucketName string `yaml:"aws_bucket_name" env:"SOUNDWAVE_AWS_BUCKET_NAME"`
	AwsAccessKey  string `yaml:"aws_access_key" env:"SOUNDWAVE_AWS_ACCESS_KEY"`
	AwsSecretKey  string `yaml:"aws_secret_key" env:"SOUNDWAVE_AWS_SECRET_KEY"`
	AwsRegion     string `yaml:"aws_region" env:"SOUNDWAVE_AWS_REGION"`
	AwsEndpoint   string `yaml:"aws_endpoint" env:"SOUNDWAVE_AWS_ENDPOINT"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		CatalogFile:   "~/.soundwave-catalog.yaml",
		MediaDir:      "~/Music",
		DefaultVolume: 0.7,
		EventBuffer:   32,
		ListenAddr:    ":8080",
		LogLevel:      "info",
		LogFile:       "~/.soundwave.log",
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не является ошибкой: используются значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	// .env не обязателен, существующие переменные окружения не перезаписываются
	_ = godotenv.Load()

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	// Раскрываем тильду в путях
	config.CatalogFile = expandHome(config.CatalogFile, home)
	config.MediaDir = expandHome(config.MediaDir, home)
	config.LogFile = expandHome(config.LogFile, home)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("%w: default_volume должен быть в диапазоне [0, 1], получено %v", ErrInvalidConfig, c.DefaultVolume)
	}
	if c.EventBuffer < 0 {
		return fmt.Errorf("%w: event_buffer не может быть отрицательным", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: неизвестный log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// HasS3 сообщает, заданы ли параметры S3
func (c *Config) HasS3() bool {
	return c.AwsRegion != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~") {
		return strings.Replace(path, "~", home, 1)
	}
	return path
}
