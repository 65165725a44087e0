package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port         string `mapstructure:"PORT"`
	StartDelayMS int    `mapstructure:"START_DELAY_MS"`
	ClientBuffer int    `mapstructure:"CLIENT_BUFFER"`
	GinMode      string `mapstructure:"GIN_MODE"`
}

// StartDelay is the fixed delay between the ready gate firing and the
// start notification going out.
func (c *Config) StartDelay() time.Duration {
	return time.Duration(c.StartDelayMS) * time.Millisecond
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("START_DELAY_MS", 3000)
	viper.SetDefault("CLIENT_BUFFER", 32)
	viper.SetDefault("GIN_MODE", "release")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
