package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"warzone/internal/logger"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	AppPort          string
	StoreDriver      string
	DatabaseURL      string
	SQLitePath       string
	BotToken         string
	JWTSecret        string
	DevMode          bool
	AdminTelegramIDs []int64 // tg id админов через запятую
	AllowedOrigin    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogPath      string
	StoreMaxAttempts int

	// Лимиты
	APIRateLimit     int
	APIRateWindow    time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal(err.Error())
	}
	return cfg
}

// FromEnv builds a Config from a lookup function; Load uses os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	devMode := getenv("DEV_MODE") == "true"

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	botToken := getenv("BOT_TOKEN")
	if botToken == "" && !devMode {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	dbURL := getenv("DATABASE_URL")
	driver := strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER")))
	if driver == "" {
		driver = DriverSQLite
		if dbURL != "" {
			driver = DriverPostgres
		}
	}
	switch driver {
	case DriverPostgres:
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	case DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	// !! ЧЕРЕЗ ЗАПЯТУЮ В ENV !!
	var adminIDs []int64
	if s := getenv("ADMIN_TELEGRAM_IDS"); s != "" {
		for _, idStr := range strings.Split(s, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	return &Config{
		AppPort:          orDefault(getenv("APP_PORT"), "8080"),
		StoreDriver:      driver,
		DatabaseURL:      dbURL,
		SQLitePath:       orDefault(getenv("SQLITE_PATH"), "data/warzone.db"),
		BotToken:         botToken,
		JWTSecret:        jwtSecret,
		DevMode:          devMode,
		AdminTelegramIDs: adminIDs,
		AllowedOrigin:    getenv("ALLOWED_ORIGIN"),
		RedisAddr:        getenv("REDIS_ADDR"),
		RedisPassword:    getenv("REDIS_PASSWORD"),
		RedisDB:          positiveInt(getenv("REDIS_DB"), 0),
		CatalogPath:      getenv("CATALOG_PATH"),
		StoreMaxAttempts: positiveInt(getenv("STORE_MAX_ATTEMPTS"), 5),
		APIRateLimit:     positiveInt(getenv("API_RATE_LIMIT"), 120),
		APIRateWindow:    seconds(getenv("API_RATE_WINDOW"), time.Minute),
		ActionRateLimit:  positiveInt(getenv("ACTION_RATE_LIMIT"), 60), // макс действий за ->
		ActionRateWindow: seconds(getenv("ACTION_RATE_WINDOW"), time.Minute),
		LogLevel:         orDefault(getenv("LOG_LEVEL"), "info"),
		LogJSON:          getenv("LOG_JSON") == "true",
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

func seconds(v string, def time.Duration) time.Duration {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
