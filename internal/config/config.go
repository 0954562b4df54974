// Package config loads application configuration from file and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Scan  ScanConfig
	UI    UIConfig
	Cache CacheConfig
}

// ScanConfig holds walker settings.
type ScanConfig struct {
	CrossFilesystems bool
	ExcludePatterns  []string
	ProgressPerSec   float64
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StatusBarTimeoutMillisec int
	LongMessageTimeoutMilli  int
	TreeExpandDelayMillisec  int
	ProgressTickMillisec     int
	ShowTreemap              bool
	TreemapOnSide            bool
}

// CacheConfig holds the default cache file location.
type CacheConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix
// DIRSCOPE_; the config file lives in ~/.config/dirscope/config.toml unless
// DIRSCOPE_CONFIG points elsewhere.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("scan.cross_filesystems", false)
	v.SetDefault("scan.exclude_patterns", []string{})
	v.SetDefault("scan.progress_per_sec", 10.0)
	v.SetDefault("ui.status_bar_timeout_millisec", 3000)
	v.SetDefault("ui.long_message_timeout_millisec", 25000)
	v.SetDefault("ui.tree_expand_delay_millisec", 200)
	v.SetDefault("ui.progress_tick_millisec", 200)
	v.SetDefault("ui.show_treemap", true)
	v.SetDefault("ui.treemap_on_side", false)
	v.SetDefault("cache.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "dirscope", "cache.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DIRSCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "dirscope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DIRSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	c.Scan.CrossFilesystems = v.GetBool("scan.cross_filesystems")
	c.Scan.ExcludePatterns = v.GetStringSlice("scan.exclude_patterns")
	c.Scan.ProgressPerSec = v.GetFloat64("scan.progress_per_sec")
	c.UI.StatusBarTimeoutMillisec = v.GetInt("ui.status_bar_timeout_millisec")
	c.UI.LongMessageTimeoutMilli = v.GetInt("ui.long_message_timeout_millisec")
	c.UI.TreeExpandDelayMillisec = v.GetInt("ui.tree_expand_delay_millisec")
	c.UI.ProgressTickMillisec = v.GetInt("ui.progress_tick_millisec")
	c.UI.ShowTreemap = v.GetBool("ui.show_treemap")
	c.UI.TreemapOnSide = v.GetBool("ui.treemap_on_side")
	c.Cache.Path = v.GetString("cache.path")
	return c, nil
}

// fileConfig mirrors the TOML layout of the config file for the starter
// file written on first run.
type fileConfig struct {
	Scan struct {
		CrossFilesystems bool     `toml:"cross_filesystems"`
		ExcludePatterns  []string `toml:"exclude_patterns"`
		ProgressPerSec   float64  `toml:"progress_per_sec"`
	} `toml:"scan"`
	UI struct {
		StatusBarTimeoutMillisec int  `toml:"status_bar_timeout_millisec"`
		TreeExpandDelayMillisec  int  `toml:"tree_expand_delay_millisec"`
		ShowTreemap              bool `toml:"show_treemap"`
		TreemapOnSide            bool `toml:"treemap_on_side"`
	} `toml:"ui"`
	Cache struct {
		Path string `toml:"path"`
	} `toml:"cache"`
}

// WriteDefault writes a starter config to path unless one already exists.
func WriteDefault(path string, c Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var fc fileConfig
	fc.Scan.CrossFilesystems = c.Scan.CrossFilesystems
	fc.Scan.ExcludePatterns = c.Scan.ExcludePatterns
	fc.Scan.ProgressPerSec = c.Scan.ProgressPerSec
	fc.UI.StatusBarTimeoutMillisec = c.UI.StatusBarTimeoutMillisec
	fc.UI.TreeExpandDelayMillisec = c.UI.TreeExpandDelayMillisec
	fc.UI.ShowTreemap = c.UI.ShowTreemap
	fc.UI.TreemapOnSide = c.UI.TreemapOnSide
	fc.Cache.Path = c.Cache.Path

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(fc)
}
