package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	mu     sync.RWMutex
	v      *viper.Viper
)

func init() {
	v = newViper()
}

// Config represents the configuration implementation.
type Config struct {
	AppName        string
	RunMode        string
	Host           string
	Port           int
	RequestTimeout time.Duration
	Logger         *Logger
	Data           *Data
	Auth           *Auth
	Storage        *Storage
	Observes       *Observes
	Job            *Job
	Viper          *viper.Viper
}

// IsProd reports whether the service runs in release mode.
func (c *Config) IsProd() bool {
	return c.RunMode == "release"
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix("TRANSPORT")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

// GetConfig returns the loaded configuration.
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if config == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return config, nil
}

// LoadConfig loads the configuration from the file and sets it globally.
// An empty path searches the usual locations for config.yaml.
func LoadConfig(configPath string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/transport")
		v.AddConfigPath("$HOME/.transport")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := FromViper(v)
	config = cfg
	return cfg, nil
}

// FromViper builds the configuration from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:        getStringOrDefault(v, "app_name", "transport"),
		RunMode:        getStringOrDefault(v, "run_mode", "release"),
		Host:           v.GetString("server.host"),
		Port:           getIntOrDefault(v, "server.port", 8080),
		RequestTimeout: getDurationOrDefault(v, "server.request_timeout", 15*time.Second),
		Logger:         getLoggerConfig(v),
		Data:           getDataConfig(v),
		Auth:           getAuth(v),
		Storage:        getStorageConfig(v),
		Observes:       getObservesConfig(v),
		Job:            getJobConfig(v),
		Viper:          v,
	}
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		mu.Lock()
		newConfig := FromViper(v)
		config = newConfig
		mu.Unlock()
		callback(newConfig)
	})
	v.WatchConfig()
}
