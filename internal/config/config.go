package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// ───── Infrastructure ─────
	MongoURI          string
	MongoDatabase     string
	RedisAddr         string
	KafkaBrokers      []string
	KafkaEventsTopic  string
	KafkaOnboardTopic string

	// ───── Runtime ─────
	HTTPPort    string
	HTTPAddr    string
	ServiceName string

	// ───── JWT Security ─────
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// ───── Rate Limiting ─────
	RateLimitRequests int
	RateLimitWindow   string

	// ───── Observability ─────
	MetricsEnabled bool
	TracingEnabled bool
	JaegerURL      string
}

func Load() *Config {
	return &Config{
		MongoURI:          mustEnv("MONGODB_URI"),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "sui_chat"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		KafkaBrokers:      getEnvSlice("KAFKA_BROKERS", nil),
		KafkaEventsTopic:  getEnv("KAFKA_EVENTS_TOPIC", "friends.events"),
		KafkaOnboardTopic: getEnv("KAFKA_ONBOARD_TOPIC", "profile.onboarded"),

		HTTPPort:    getEnv("HTTP_PORT", "3000"),
		HTTPAddr:    fixPort(getEnv("HTTP_ADDR", ":8081")),
		ServiceName: getEnv("SERVICE_NAME", "friends-api"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "sui-chat"),
		JWTAudience: getEnv("JWT_AUDIENCE", "sui-chat-clients"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnv("RATE_LIMIT_WINDOW", "1m"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

// AuthEnabled reports whether mutating routes require a wallet JWT.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func getEnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int env %s: %v", k, err)
	}
	return i
}

func getEnvBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.ToLower(v) == "true"
}

func getEnvSlice(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
