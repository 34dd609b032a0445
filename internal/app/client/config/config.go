package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"flagexpiry/internal/utils/dateutil"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DefaultPropertyName = "flag.expiry.date"

	defaultEnv        = EnvLocal
	defaultAPIBaseURL = "https://app.flagservice.io"
	defaultDaysOffset = 30
	defaultDateFormat = dateutil.DefaultFormat
	defaultPageSize   = 50
	defaultBatchSize  = 5
	defaultLogLevel   = "info"

	// Задержки по умолчанию подобраны под rate limit сервиса флагов
	defaultBaseDelayMs  = 1000
	defaultPageDelayMs  = 200
	defaultBatchDelayMs = 1000
)

type Config struct {
	Env          string `mapstructure:"app_env"`
	APIBaseURL   string `mapstructure:"flags_api_url" validate:"required,url"`
	APIToken     string `mapstructure:"flags_api_token" validate:"required"`
	ProjectKey   string `mapstructure:"flags_project" validate:"required"`
	PropertyName string `mapstructure:"expiry_property_name" validate:"required"`
	DaysOffset   int    `mapstructure:"days_offset" validate:"gte=1,lte=365"`
	DateFormat   string `mapstructure:"date_format"`
	SkipExisting bool   `mapstructure:"skip_existing"`
	LogLevel     string `mapstructure:"log_level"`
	HistoryPath  string `mapstructure:"history_path"`

	// Параметры троттлинга. Корректность прогона от значений не зависит,
	// но сам факт задержек между запросами обязателен.
	PageSize     int `mapstructure:"page_size" validate:"gte=1"`
	BatchSize    int `mapstructure:"batch_size" validate:"gte=1"`
	MaxAttempts  int `mapstructure:"max_attempts" validate:"gte=1"`
	BaseDelayMs  int `mapstructure:"base_delay_ms" validate:"gte=0"`
	PageDelayMs  int `mapstructure:"page_delay_ms" validate:"gte=0"`
	BatchDelayMs int `mapstructure:"batch_delay_ms" validate:"gte=0"`
}

// Load загружает конфигурацию из .env файла и переменных окружения.
// Валидация выполняется отдельно через Validate: токен может быть
// запрошен интерактивно уже после загрузки.
func Load() (*Config, error) {
	// Загружаем .env файл если существует
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	viper.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("FLAGS_API_URL", defaultAPIBaseURL)
	viper.SetDefault("EXPIRY_PROPERTY_NAME", DefaultPropertyName)
	viper.SetDefault("DAYS_OFFSET", defaultDaysOffset)
	viper.SetDefault("DATE_FORMAT", defaultDateFormat)
	viper.SetDefault("SKIP_EXISTING", true)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("PAGE_SIZE", defaultPageSize)
	viper.SetDefault("BATCH_SIZE", defaultBatchSize)
	viper.SetDefault("MAX_ATTEMPTS", 3)
	viper.SetDefault("BASE_DELAY_MS", defaultBaseDelayMs)
	viper.SetDefault("PAGE_DELAY_MS", defaultPageDelayMs)
	viper.SetDefault("BATCH_DELAY_MS", defaultBatchDelayMs)

	config := &Config{
		Env:          viper.GetString("APP_ENV"),
		APIBaseURL:   strings.TrimRight(viper.GetString("FLAGS_API_URL"), "/"),
		APIToken:     viper.GetString("FLAGS_API_TOKEN"),
		ProjectKey:   viper.GetString("FLAGS_PROJECT"),
		PropertyName: viper.GetString("EXPIRY_PROPERTY_NAME"),
		DaysOffset:   viper.GetInt("DAYS_OFFSET"),
		DateFormat:   viper.GetString("DATE_FORMAT"),
		SkipExisting: viper.GetBool("SKIP_EXISTING"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
		HistoryPath:  viper.GetString("HISTORY_PATH"),
		PageSize:     viper.GetInt("PAGE_SIZE"),
		BatchSize:    viper.GetInt("BATCH_SIZE"),
		MaxAttempts:  viper.GetInt("MAX_ATTEMPTS"),
		BaseDelayMs:  viper.GetInt("BASE_DELAY_MS"),
		PageDelayMs:  viper.GetInt("PAGE_DELAY_MS"),
		BatchDelayMs: viper.GetInt("BATCH_DELAY_MS"),
	}

	return config, nil
}

// MustLoad загружает конфигурацию и валидирует ее, при ошибке паникует
func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return config
}

// Validate проверяет конфигурацию до любых сетевых вызовов
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	// Переводим первую ошибку в понятное сообщение
	first := validationErrors[0]
	switch first.StructField() {
	case "APIToken":
		return fmt.Errorf("не задан API-токен (FLAGS_API_TOKEN)")
	case "ProjectKey":
		return fmt.Errorf("не задан ключ проекта (FLAGS_PROJECT)")
	case "APIBaseURL":
		return fmt.Errorf("некорректный адрес API (FLAGS_API_URL): %q", c.APIBaseURL)
	case "PropertyName":
		return fmt.Errorf("не задано имя custom property (EXPIRY_PROPERTY_NAME)")
	case "DaysOffset":
		return fmt.Errorf("DAYS_OFFSET должен быть в диапазоне от 1 до 365, получено %d", c.DaysOffset)
	default:
		return fmt.Errorf("некорректное значение поля %s", first.StructField())
	}
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}
