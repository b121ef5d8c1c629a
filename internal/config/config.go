package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string
	ServerPort  string
	LogLevel    string

	Database DatabaseConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Search   SearchConfig

	CookieSecure     bool
	CSRFEnabled      bool
	MinPasswordScore int
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type JWTConfig struct {
	Secret []byte
	TTL    time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SearchConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

var ErrMissingSecret = errors.New("JWT_SECRET is empty")

// Load reads .env (if present) into the process environment and resolves
// every key through viper so defaults and env overrides share one path.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("notice: .env not loaded: %v, using process environment", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "catalog")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("CSRF_ENABLED", false)
	v.SetDefault("MIN_PASSWORD_SCORE", 2)
	v.SetDefault("KAFKA_TOPIC", "catalog_events")
	v.SetDefault("ES_INDEX", "products")

	cfg := &Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		ServerPort:  v.GetString("SERVER_PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			URL:    v.GetString("DATABASE_URL"),
		},
		JWT: JWTConfig{
			Secret: []byte(v.GetString("JWT_SECRET")),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: CSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Search: SearchConfig{
			URL:      v.GetString("ES_URL"),
			User:     v.GetString("ES_USER"),
			Password: v.GetString("ES_PASSWORD"),
			Index:    v.GetString("ES_INDEX"),
		},
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		CSRFEnabled:      v.GetBool("CSRF_ENABLED"),
		MinPasswordScore: v.GetInt("MIN_PASSWORD_SCORE"),
	}

	if len(cfg.JWT.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = time.Hour
	}
	if cfg.MinPasswordScore < 0 || cfg.MinPasswordScore > 4 {
		cfg.MinPasswordScore = 2
	}

	return cfg, nil
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
