package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env(map[string]string{"PORT": "8080", "DB_NAME": "cricket.db"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "cricket.db", cfg.DBName)
	assert.False(t, cfg.StrictEntries)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Slack.Enabled())
	assert.Empty(t, cfg.Redis.Addr)
}

func TestParse_Optional(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"PORT":             "8080",
		"DB_NAME":          "cricket.db",
		"STRICT_ENTRIES":   "true",
		"REQUEST_TIMEOUT":  "3s",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_TTL":        "1m",
		"SLACK_BOT_TOKEN":  "xoxb",
		"SLACK_CHANNEL_ID": "C1",
		"CORS_ORIGINS":     "https://a.example,https://b.example",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.StrictEntries)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestParse_CORSOriginsAreTrimmed(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"PORT":         "8080",
		"DB_NAME":      "cricket.db",
		"CORS_ORIGINS": " https://a.example , https://b.example,,",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	cfg, err = Parse(env(map[string]string{"PORT": "8080", "DB_NAME": "cricket.db", "CORS_ORIGINS": " , "}))
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestParse_MissingRequired(t *testing.T) {
	_, err := Parse(env(map[string]string{"PORT": "8080"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestParse_InvalidValues(t *testing.T) {
	base := map[string]string{"PORT": "8080", "DB_NAME": "x"}

	for key, value := range map[string]string{
		"STRICT_ENTRIES":  "maybe",
		"REQUEST_TIMEOUT": "soon",
	} {
		vars := map[string]string{key: value}
		for k, v := range base {
			vars[k] = v
		}
		_, err := Parse(env(vars))
		assert.Error(t, err, key)
	}
}
