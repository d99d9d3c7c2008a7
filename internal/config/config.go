package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultRequestTimeout = 15 * time.Second

// Load reads configuration from environment variables and .env file.
// It exits the process when a required variable is missing or malformed.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// Parse builds a Config from lookup. PORT and DB_NAME are required.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN"),
			ChannelID:     optional("SLACK_CHANNEL_ID"),
			SigningSecret: optional("SLACK_SIGNING_SECRET"),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL"),
			AuthToken:  optional("TURSO_AUTH_TOKEN"),
		},
		Redis: RedisConfig{
			Addr:     optional("REDIS_ADDR"),
			Password: optional("REDIS_PASSWORD"),
		},
		ProjectID:      optional("GCP_PROJECT"),
		RequestTimeout: defaultRequestTimeout,
		CORSOrigins:    []string{"*"},
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if v := optional("STRICT_ENTRIES"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("STRICT_ENTRIES: %w", err)
		}
		cfg.StrictEntries = strict
	}
	if v := optional("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := optional("REDIS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_TTL: %w", err)
		}
		cfg.Redis.TTL = d
	}
	if origins := splitList(optional("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	return cfg, nil
}

// splitList splits a comma separated value, trimming each element and dropping empty ones.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
