package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN       string
	Environment string
	HTTPAddr    string

	// Telegram бот для сотрудников, выключен если токен пуст
	TelegramToken    string
	TelegramAdminIDs []int64

	// Дедлайн операции, если у вызывающего его нет
	OperationTimeout time.Duration

	// Процедурная уникальность: один поток на студента, один результат на (тест, студент)
	EnforceSingleMembership bool
	EnforceUniqueScores     bool

	MigrationsEnabled bool
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:         getenv("DB_DSN"),
		Environment:   getenv("ENV"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.OperationTimeout, err = parseDuration(getenv("OPERATION_TIMEOUT"), 5*time.Second); err != nil {
		return nil, fmt.Errorf("OPERATION_TIMEOUT: %w", err)
	}
	if cfg.EnforceSingleMembership, err = parseBool(getenv("ENFORCE_SINGLE_MEMBERSHIP"), false); err != nil {
		return nil, fmt.Errorf("ENFORCE_SINGLE_MEMBERSHIP: %w", err)
	}
	if cfg.EnforceUniqueScores, err = parseBool(getenv("ENFORCE_UNIQUE_SCORES"), false); err != nil {
		return nil, fmt.Errorf("ENFORCE_UNIQUE_SCORES: %w", err)
	}
	if cfg.MigrationsEnabled, err = parseBool(getenv("MIGRATIONS_ENABLED"), true); err != nil {
		return nil, fmt.Errorf("MIGRATIONS_ENABLED: %w", err)
	}
	if cfg.TelegramAdminIDs, err = parseIDs(getenv("TELEGRAM_ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_IDS: %w", err)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}

func parseBool(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
