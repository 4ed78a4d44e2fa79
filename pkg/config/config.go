package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int
	LogLevel   string

	DatabaseURL string

	Auth   AuthConfig
	Stream StreamConfig

	CookieSecure bool
	CORSOrigins  []string

	KafkaBrokers []string
}

// AuthConfig describes the hosted auth provider (GoTrue compatible API).
type AuthConfig struct {
	URL       string
	AnonKey   string
	JWTSecret []byte
}

// StreamConfig holds the Cloudflare Stream settings. Signing and API
// credentials are optional at startup; components check them on use.
type StreamConfig struct {
	SigningKeyID  string
	SigningKeyPEM string
	CustomerCode  string

	AccountID string
	APIToken  string

	APIURL string
	Domain string
}

func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "online_course"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		Auth: AuthConfig{
			URL:       strings.TrimRight(os.Getenv("AUTH_URL"), "/"),
			AnonKey:   os.Getenv("AUTH_ANON_KEY"),
			JWTSecret: []byte(os.Getenv("AUTH_JWT_SECRET")),
		},

		Stream: StreamConfig{
			SigningKeyID:  os.Getenv("CLOUDFLARE_SIGNING_KEY_ID"),
			SigningKeyPEM: os.Getenv("CLOUDFLARE_SIGNING_KEY_PEM"),
			CustomerCode:  os.Getenv("CLOUDFLARE_CUSTOMER_CODE"),
			AccountID:     os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			APIToken:      os.Getenv("CLOUDFLARE_API_TOKEN"),
			APIURL:        strings.TrimRight(EnvDefault("CLOUDFLARE_API_URL", "https://api.cloudflare.com/client/v4"), "/"),
			Domain:        EnvDefault("CLOUDFLARE_STREAM_DOMAIN", "cloudflarestream.com"),
		},

		CookieSecure: EnvBoolDefault("COOKIE_SECURE", true),
		CORSOrigins:  CSV(os.Getenv("CORS_ORIGINS")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
