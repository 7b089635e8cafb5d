package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Authority struct {
		Host string
		Port int
	}
	Player struct {
		Name string
	}
	Poll struct {
		Events time.Duration
		State  time.Duration
	}
	Log struct {
		Level string
	}
}

var C Config

func Load() {
	viper.SetDefault("authority.host", "127.0.0.1")
	viper.SetDefault("authority.port", 8000)
	viper.SetDefault("player.name", "Guest")
	viper.SetDefault("poll.events", "1s")
	viper.SetDefault("poll.state", "2s")
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("SJAVS")
	viper.AutomaticEnv()

	viper.SetConfigFile("config/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		// The client runs fine on defaults; the yaml file is optional.
		log.Printf("No config file, using defaults: %v", err)
	}
	if err := viper.Unmarshal(&C); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
}
