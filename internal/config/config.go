package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	Video VideoConfig `mapstructure:"video" yaml:"video"`
	Chat  ChatConfig  `mapstructure:"chat" yaml:"chat"`
}

// VideoConfig selects and configures the video token engine. When APIKey and
// APISecret are set the LiveKit engine is used; otherwise tokens are signed
// locally with DevSecret.
type VideoConfig struct {
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	APISecret string        `mapstructure:"api_secret" yaml:"api_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	DevSecret string        `mapstructure:"dev_secret" yaml:"dev_secret"`
}

// ChatConfig tunes the chat policy rules every new town starts with.
type ChatConfig struct {
	MaxMessageLength int      `mapstructure:"max_message_length" yaml:"max_message_length"`
	BannedWords      []string `mapstructure:"banned_words" yaml:"banned_words"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "townsquare.db",
		Video: VideoConfig{
			TokenTTL:  time.Hour,
			DevSecret: "townsquare-dev-secret",
		},
		Chat: ChatConfig{
			MaxMessageLength: 140,
			BannedWords:      []string{"dang"},
		},
	}
}
