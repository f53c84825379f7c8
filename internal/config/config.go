package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Playback PlaybackConfig `mapstructure:"playback"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StreamConfig points at the upstream room gift stream and the media
// gateway render endpoint. Both are optional: with no URLs set the
// service runs HTTP-only with a log renderer.
type StreamConfig struct {
	URL         string `mapstructure:"url"`
	RendererURL string `mapstructure:"renderer_url"`
}

type PlaybackConfig struct {
	ComboWindowMS      int `mapstructure:"combo_window_ms"`
	TransitionBufferMS int `mapstructure:"transition_buffer_ms"`
	QueueCapacity      int `mapstructure:"queue_capacity"`
}

// LoadConfig reads config.yaml (if present) and APP_-prefixed
// environment variables, with sane defaults for everything.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/gift-playback-service")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("postgres.dsn", "")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("stream.url", "")
	viper.SetDefault("stream.renderer_url", "")
	viper.SetDefault("playback.combo_window_ms", 3000)
	viper.SetDefault("playback.transition_buffer_ms", 300)
	viper.SetDefault("playback.queue_capacity", 256)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Could not read config file: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
