package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure for the application
type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// StoreConfig points at the settings file served by the process
type StoreConfig struct {
	File       string `mapstructure:"file"`
	SaveOnExit bool   `mapstructure:"save_on_exit"` // write the store back on graceful shutdown
	Watch      bool   `mapstructure:"watch"`        // re-parse the file when it changes on disk
}

// ServerConfig holds the network settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig defines logging verbosity and output style
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads the configuration and overrides it with KEYFILE_* environment variables.
// An empty file searches for keyfile.yaml in the working directory; a missing
// file there is not an error
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("keyfile")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("KEYFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults populates viper with fallback values if they are not provided via file or ENV
func setDefaults(v *viper.Viper) {
	// Store
	v.SetDefault("store.file", "settings.cfg")
	v.SetDefault("store.save_on_exit", true)
	v.SetDefault("store.watch", false)

	// Server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "6390")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Logger
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
