package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all environment driven settings for the drip service.
type Config struct {
	AppName                       string
	Port                          int
	LogLevel                      string
	PrettyLogs                    bool
	HttpServerWriteTimeoutSeconds int
	HttpServerReadTimeoutSeconds  int
	HttpServerIdleTimeoutSeconds  int
	MaxHeaderBytes                int
	ReadHeaderTimeoutSeconds      int
	AllowOrigins                  []string
	AllowMethods                  []string
	StartupMaxAttempts            int

	// PostgreSQL (projection store)
	DatabaseDriver              string
	DatabaseHost                string
	DatabasePort                string
	DatabaseUserName            string
	DatabasePassword            string
	DatabaseName                string
	DatabaseSSLMode             string
	DatabaseMaxOpenConns        int
	DatabaseMaxIdleConns        int
	DatabaseConnMaxLifetime     time.Duration
	DatabaseMigrationFolderPath string
	DatabaseMigrationVersion    int
	DatabaseMigrationForce      int

	// Strapi (source of truth CMS)
	StrapiBaseURL        string
	StrapiToken          string
	StrapiTimeoutSeconds int

	// Webhook
	WebhookSecret string

	// Kafka sync events (optional)
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaOutputTopic  string
	KafkaBatchSize    int
	KafkaBatchTimeout int
	KafkaRequiredAcks int
	KafkaCompression  string

	// Tracing
	TracingEnabled      bool
	TracingOTLPEndpoint string
	TracingOTLPProtocol string
	TracingOTLPInsecure bool
}

// Load reads the configuration from the environment. Defaults mirror local
// development; production deployments set everything explicitly.
func Load() Config {
	return Config{
		AppName:                       getString("APP_NAME", "drip-api"),
		Port:                          getInt("PORT", 3004),
		LogLevel:                      getString("LOG_LEVEL", "info"),
		PrettyLogs:                    getBool("PRETTY_LOGS", false),
		HttpServerWriteTimeoutSeconds: getInt("HTTP_SERVER_WRITE_TIMEOUT_SECONDS", 10),
		HttpServerReadTimeoutSeconds:  getInt("HTTP_SERVER_READ_TIMEOUT_SECONDS", 10),
		HttpServerIdleTimeoutSeconds:  getInt("HTTP_SERVER_IDLE_TIMEOUT_SECONDS", 10),
		MaxHeaderBytes:                getInt("HTTP_SERVER_MAX_HEADER_BYTES", 64000),
		ReadHeaderTimeoutSeconds:      getInt("HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS", 10),
		AllowOrigins:                  getStrings("HTTP_SERVER_ALLOW_ORIGINS", "*"),
		AllowMethods:                  getStrings("HTTP_SERVER_ALLOW_METHODS", "GET,POST"),
		StartupMaxAttempts:            getInt("STARTUP_MAX_ATTEMPTS", 5),

		DatabaseDriver:              getString("DB_DRIVER", "postgres"),
		DatabaseHost:                getString("DB_HOST", "localhost"),
		DatabasePort:                getString("DB_PORT", "5432"),
		DatabaseUserName:            getString("DB_USER_NAME", ""),
		DatabasePassword:            getString("DB_PASSWORD", ""),
		DatabaseName:                getString("DB_NAME", "drip"),
		DatabaseSSLMode:             getString("DB_SSL_MODE", "disable"),
		DatabaseMaxOpenConns:        getInt("DB_MAX_OPEN_CONNS", 25),
		DatabaseMaxIdleConns:        getInt("DB_MAX_IDLE_CONNS", 10),
		DatabaseConnMaxLifetime:     getDuration("DB_CONN_MAX_LIFETIME", 10*time.Second),
		DatabaseMigrationFolderPath: getString("DB_MIGRATION_FOLDER_PATH", "db/pg"),
		DatabaseMigrationVersion:    getInt("DB_MIGRATION_VERSION", 0),
		DatabaseMigrationForce:      getInt("DB_MIGRATION_FORCE", 0),

		StrapiBaseURL:        getString("STRAPI_BASE_URL", "http://localhost:1337"),
		StrapiToken:          getString("STRAPI_TOKEN", ""),
		StrapiTimeoutSeconds: getInt("STRAPI_TIMEOUT_SECONDS", 30),

		WebhookSecret: getString("WEBHOOK_SECRET", ""),

		KafkaEnabled:      getBool("KAFKA_ENABLED", false),
		KafkaBrokers:      getStrings("KAFKA_BROKERS", "localhost:9092"),
		KafkaOutputTopic:  getString("KAFKA_OUTPUT_TOPIC", "entry-sync-events"),
		KafkaBatchSize:    getInt("KAFKA_BATCH_SIZE", 100),
		KafkaBatchTimeout: getInt("KAFKA_BATCH_TIMEOUT_MS", 100),
		KafkaRequiredAcks: getInt("KAFKA_REQUIRED_ACKS", 1),
		KafkaCompression:  getString("KAFKA_COMPRESSION", "snappy"),

		TracingEnabled:      getBool("TRACING_ENABLED", false),
		TracingOTLPEndpoint: getString("TRACING_OTLP_ENDPOINT", "localhost:4317"),
		TracingOTLPProtocol: getString("TRACING_OTLP_PROTOCOL", "grpc"),
		TracingOTLPInsecure: getBool("TRACING_OTLP_INSECURE", true),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getStrings(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
