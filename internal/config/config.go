package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config regroupe toute la configuration du serveur
type Config struct {
	Port string `mapstructure:"port"`
	URL  string `mapstructure:"url"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`

	CloudinaryCloudName string `mapstructure:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `mapstructure:"cloudinary_api_key"`
	CloudinaryAPISecret string `mapstructure:"cloudinary_api_secret"`
}

// LoadConfig lit la configuration depuis les variables d'environnement TRACKPRO_*
// avec des valeurs par défaut pour le développement local
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("trackpro")
	v.AutomaticEnv()

	v.SetDefault("port", "5000")
	v.SetDefault("url", "http://localhost:5000")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "trackpro")
	v.SetDefault("cloudinary_cloud_name", "")
	v.SetDefault("cloudinary_api_key", "")
	v.SetDefault("cloudinary_api_secret", "")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
