package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Hasher struct {
		// Bcrypt cost used for new digests. Stored digests minted at a
		// lower cost are upgraded on the next successful login.
		Cost int `mapstructure:"cost"`
	} `mapstructure:"hasher"`
	Logger struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logger"`
}

var AppConfig Config

// LoadConfig reads config.yml from the given path. The ledger has no
// required external endpoints, so a missing file just means defaults.
func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("hasher.cost", 0) // 0 means the bcrypt default
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "text")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Error reading config file, %s", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
