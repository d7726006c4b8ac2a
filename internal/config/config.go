package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends de persistencia soportados por STORE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
	BackendRedis    = "rediskv"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StoreBackend string
	SQLitePath   string
	PostgresDSN  string
	MongoURI     string
	MongoDB      string
	RedisAddr    string

	UseKafka     bool
	KafkaBrokers []string

	AnalyticsEnabled     bool
	ClickHouseAddr       string
	ClickHouseDB         string
	AnalyticsBatchSize   int
	AnalyticsFlushPeriod time.Duration
}

func LoadConfig() *Config {
	// .env es opcional: en despliegues reales todo llega por entorno.
	_ = godotenv.Load()

	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	getBool := func(key string, fallback bool) bool {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err == nil {
				return b
			}
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return fallback
	}

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")

	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend: getEnv("STORE_BACKEND", BackendSQLite),
		SQLitePath:   getEnv("SQLITE_PATH", "./taskvault.db"),
		PostgresDSN:  getEnv("DATABASE_URL", ""),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "taskvault"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),

		UseKafka:     getBool("USE_KAFKA", false),
		KafkaBrokers: kafkaBrokers,

		AnalyticsEnabled:     getBool("ANALYTICS_ENABLED", false),
		ClickHouseAddr:       getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:         getEnv("CLICKHOUSE_DB", "taskvault"),
		AnalyticsBatchSize:   getInt("ANALYTICS_BATCH_SIZE", 50),
		AnalyticsFlushPeriod: 5 * time.Second,
	}
}
