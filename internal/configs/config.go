package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	URL           string
	MaxConns      int
	RunMigrations bool
	SeedReference bool // заполнить справочники городов/районов/кварталов при старте
}

type RESTConfig struct {
	Port                string
	AllowedOrigins      []string
	RateLimitPerMinute  int
	TrustGatewayHeaders bool // доверять заголовкам api-gateway: X-User-ID / X-User-Role и X-Forwarded-For / X-Real-IP
	ShutdownTimeout     time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type RabbitMQConfig struct {
	URL               string
	Enabled           bool
	ConsumerWorkers   int
	MaxRetries        int
	RetryTTL          time.Duration
	ReconnectInterval time.Duration
}

type RedisConfig struct {
	URL     string
	Enabled bool
}

type SchedulerConfig struct {
	ReminderSpec string // cron-выражение, например "@every 1m"
}

type StdoutLogConfig struct {
	Level    string
	UseColor bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig вся конфигурация приложения.
type AppConfig struct {
	AppName      string
	Database     DBConfig
	Rest         RESTConfig
	Auth         AuthConfig
	RabbitMQ     RabbitMQConfig
	Redis        RedisConfig
	Scheduler    SchedulerConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// в контейнере переменные приходят из окружения, .env необязателен
		log.Printf("Info: .env file not loaded (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "saved-search-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)
	cfg.Database.RunMigrations = getEnvAsBool("RUN_MIGRATIONS", true)
	cfg.Database.SeedReference = getEnvAsBool("SEED_REFERENCE_DATA", true)

	cfg.Rest.Port = getEnvAsString("PORT", "8085")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	cfg.Rest.RateLimitPerMinute = getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120)
	cfg.Rest.TrustGatewayHeaders = getEnvAsBool("TRUST_GATEWAY_HEADERS", false)
	cfg.Rest.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" && !cfg.Rest.TrustGatewayHeaders {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required unless TRUST_GATEWAY_HEADERS is enabled")
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", true)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}
	cfg.RabbitMQ.ConsumerWorkers = getEnvAsInt("RABBITMQ_CONSUMER_WORKERS", 4)
	cfg.RabbitMQ.MaxRetries = getEnvAsInt("RABBITMQ_MAX_RETRIES", 3)
	cfg.RabbitMQ.RetryTTL = getEnvAsDuration("RABBITMQ_RETRY_TTL", 10*time.Second)
	cfg.RabbitMQ.ReconnectInterval = getEnvAsDuration("RABBITMQ_RECONNECT_INTERVAL", 5*time.Second)

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Redis.Enabled = cfg.Redis.URL != ""

	cfg.Scheduler.ReminderSpec = getEnvAsString("REMINDER_CRON_SPEC", "@every 1m")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.UseColor = getEnvAsBool("STDOUT_LOG_COLOR", true)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
