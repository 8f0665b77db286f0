package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755
	filePerm = 0644
)

// Config represents the complete configuration for webdeck.
type Config struct {
	Window    WindowConfig    `mapstructure:"window" yaml:"window" json:"window"`
	Downloads DownloadsConfig `mapstructure:"downloads" yaml:"downloads" json:"downloads"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging" json:"logging"`
	UserAgent string          `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent"`
}

// WindowConfig holds host-window defaults used when no saved geometry
// exists.
type WindowConfig struct {
	DefaultWidth  int    `mapstructure:"default_width" yaml:"default_width" json:"default_width"`
	DefaultHeight int    `mapstructure:"default_height" yaml:"default_height" json:"default_height"`
	Title         string `mapstructure:"title" yaml:"title" json:"title"`
}

// DownloadsConfig selects the download destination policy.
type DownloadsConfig struct {
	// Policy is "auto" (save to Dir without asking) or "interactive"
	// (native save prompt).
	Policy string `mapstructure:"policy" yaml:"policy" json:"policy"`
	// Dir is the downloads directory; empty means <home>/Downloads.
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

var (
	loadOnce sync.Once
	loaded   *Config
	loadErr  error
)

func defaults() map[string]any {
	return map[string]any{
		"window.default_width":  1280,
		"window.default_height": 800,
		"window.title":          "Webdeck",
		"downloads.policy":      "auto",
		"downloads.dir":         "",
		"logging.level":         "info",
		"logging.format":        "console",
		"user_agent":            "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	}
}

// Load reads the configuration once for the process lifetime: defaults,
// then the YAML config file under the XDG config dir, then WEBDECK_*
// environment overrides.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		loaded, loadErr = load(viper.New())
	})
	return loaded, loadErr
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("WEBDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Watch re-reads the config file on change and invokes onChange with the
// fresh configuration. Returns a stop function.
func Watch(onChange func(*Config)) (func(), error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, dirPerm); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.yaml")
	done := make(chan struct{})

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != configPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if cfg, err := load(viper.New()); err == nil {
					onChange(cfg)
				}
			case <-watcher.Errors:
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
