package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"schema-sentinel/core/database"
	"schema-sentinel/core/kvstore"
	"schema-sentinel/core/logger"
	"schema-sentinel/core/resolve"
	"schema-sentinel/core/server"
	"schema-sentinel/core/snapshot"
	"schema-sentinel/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the Redis connection.
	Redis kvstore.Config `mapstructure:"redis"`
	// Snapshot selects and configures the baseline store.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
	// Track lists the tracked files and their search roots.
	Track resolve.Config `mapstructure:"track"`
}

// LoadConfig loads configuration from the environment, after applying the .env
// file found in path if there is one.
func LoadConfig(path string) (*Config, error) {
	envPath := filepath.Join(path, ".env")

	// A missing .env is normal outside development
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	// TRACK_IMPORT_FILES -> track.import_files
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the values that select an implementation.
func (c *Config) Validate() error {
	if !c.Snapshot.IsValidBackend() {
		return fmt.Errorf("%w: %q", snapshot.ErrUnknownBackend, c.Snapshot.Backend)
	}
	if c.Snapshot.Backend == snapshot.BackendSQL {
		switch c.Database.Driver {
		case database.DriverMySQL, database.DriverSQLite:
		default:
			return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
		}
	}
	if c.Snapshot.Backend == snapshot.BackendObject {
		if err := c.Storage.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// bindValues registers every mapstructure key of iface with its `default` tag.
// Keys without a default are registered empty so AutomaticEnv can still see them.
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

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
