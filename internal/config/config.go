// This file defines the configuration structure for the application.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	API struct {
		Provider   string        `mapstructure:"provider"`
		BaseURL    string        `mapstructure:"base_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
		PageSize   int           `mapstructure:"page_size"`
		RetryCount int           `mapstructure:"retry_count"`
	} `mapstructure:"api"`
	Catalog struct {
		PrefetchDistance int `mapstructure:"prefetch_distance"`
	} `mapstructure:"catalog"`
	Search struct {
		HistoryLimit int  `mapstructure:"history_limit"`
		DiscardStale bool `mapstructure:"discard_stale"`
	} `mapstructure:"search"`
	Jobs struct {
		// Minutes between scheduled curated-list refreshes; 0 disables.
		CuratedRefreshInterval int `mapstructure:"curated_refresh_interval"`
	} `mapstructure:"jobs"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}
	return decode(v)
}

// Watch loads the configuration and calls onChange with the re-read
// configuration every time config.yml is written.
func Watch(onChange func(*Config)) (*Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Nothing to watch without a file.
		return decode(v)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			log.Printf("Warning: ignoring invalid config change in %s: %v", e.Name, err)
			return
		}
		log.Printf("Configuration reloaded from %s", e.Name)
		onChange(cfg)
	})
	v.WatchConfig()

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// KOMA_API_BASE_URL overrides `api.base_url`, and so on.
	v.SetEnvPrefix("KOMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("database.path", "./koma.db")
	v.SetDefault("api.provider", "mymanga")
	v.SetDefault("api.base_url", "https://mymanga-acacademy-5607149ebe3d.herokuapp.com")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.page_size", 20)
	v.SetDefault("api.retry_count", 0)
	v.SetDefault("catalog.prefetch_distance", 5)
	v.SetDefault("search.history_limit", 20)
	v.SetDefault("search.discard_stale", false)
	v.SetDefault("jobs.curated_refresh_interval", 60)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Defaults returns the configuration used when no file or environment
// override is present.
func Defaults() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		// Only the defaults above are decoded here.
		panic(err)
	}
	return cfg
}
