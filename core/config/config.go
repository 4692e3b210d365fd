package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"dataset-manifest/core/database"
	"dataset-manifest/core/embedding"
	"dataset-manifest/core/logger"
	"dataset-manifest/core/reconcile"
	"dataset-manifest/core/server"
	"dataset-manifest/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Pipeline holds the settings shared by the ava, hash and clip commands.
	Pipeline reconcile.Config `mapstructure:"pipeline"`
	// Embedding holds configuration for the embedding service.
	Embedding embedding.Config `mapstructure:"embedding"`
	// Storage holds configuration for manifest publishing.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the catalog database.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the catalog HTTP server.
	Server server.Config `mapstructure:"server"`
}

// LoadConfig loads configuration from environment variables and the .env
// file in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. PIPELINE_WORKERS -> pipeline.workers)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
