package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName         string
	Port           string
	Slack          SlackConfig
	Turso          TursoConfig
	Redis          RedisConfig
	ProjectID      string
	StrictEntries  bool
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether enough is configured to post to a channel.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}
