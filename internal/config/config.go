package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

// AppDirName is the per-user directory holding config, log and UI state
const AppDirName = ".ptab-editor"

// Config is the full editor configuration
type Config struct {
	Table   TableConfig   `mapstructure:"table"`
	History HistoryConfig `mapstructure:"history"`
	Fill    FillConfig    `mapstructure:"fill"`
	Log     LogConfig     `mapstructure:"log"`
	Export  ExportConfig  `mapstructure:"export"`

	ConfigFile string `mapstructure:"-"` // file actually read, empty when none
}

type TableConfig struct {
	MaxResistance     int `mapstructure:"max_resistance"`     // ceiling used when a file has no HMax
	StorageMultiplier int `mapstructure:"storage_multiplier"` // in-memory = on-disk * multiplier
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type FillConfig struct {
	PitchWatts int `mapstructure:"pitch_watts"`
}

// LogConfig controls the rotating log file. File "-" logs to stderr, empty
// means DefaultLogPath.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ExportConfig struct {
	WidthInches  float64 `mapstructure:"width_inches"`
	HeightInches float64 `mapstructure:"height_inches"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"max-resistance":     "table.max_resistance",
	"storage-multiplier": "table.storage_multiplier",
	"history":            "history.capacity",
	"pitch":              "fill.pitch_watts",
	"log-file":           "log.file",
}

// RegisterFlags adds the configuration flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Configuration file path.")
	fs.Int("max-resistance", powertable.DefaultMaxResistance, "Resistance ceiling when the table has no HMax.")
	fs.Int("storage-multiplier", powertable.DefaultStorageMultiplier, "Scale between on-disk and in-memory resistance.")
	fs.Int("history", powertable.DefaultHistoryCapacity, "Number of undo steps kept.")
	fs.Int("pitch", powertable.DefaultPitchWatts, "Spacing in watts of points synthesized when adding.")
	fs.StringP("log-file", "L", "", "Log file path ('-' for stderr).")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("table.max_resistance", powertable.DefaultMaxResistance)
	v.SetDefault("table.storage_multiplier", powertable.DefaultStorageMultiplier)
	v.SetDefault("history.capacity", powertable.DefaultHistoryCapacity)
	v.SetDefault("fill.pitch_watts", powertable.DefaultPitchWatts)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("export.width_inches", 10.0)
	v.SetDefault("export.height_inches", 6.0)
}

// Load builds the configuration from defaults, the config file, PTAB_*
// environment variables and, highest priority, flags in fs that were set.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PTAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, AppDirName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects non-positive sizes and counts, and a history too short
// to undo one command
func (c *Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"table.max_resistance", c.Table.MaxResistance},
		{"table.storage_multiplier", c.Table.StorageMultiplier},
		{"fill.pitch_watts", c.Fill.PitchWatts},
		{"log.max_size_mb", c.Log.MaxSizeMB},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &powertable.InvalidValueError{Field: p.field, Value: strconv.Itoa(p.value), Msg: "must be positive"}
		}
	}
	if c.History.Capacity < powertable.MinHistoryCapacity {
		return &powertable.InvalidValueError{
			Field: "history.capacity",
			Value: strconv.Itoa(c.History.Capacity),
			Msg:   fmt.Sprintf("must be at least %d", powertable.MinHistoryCapacity),
		}
	}
	if c.Export.WidthInches <= 0 || c.Export.HeightInches <= 0 {
		return &powertable.InvalidValueError{
			Field: "export size",
			Value: fmt.Sprintf("%gx%g", c.Export.WidthInches, c.Export.HeightInches),
			Msg:   "must be positive",
		}
	}
	return nil
}

// TableDefaults returns the settings every new table starts with
func (c *Config) TableDefaults() powertable.Config {
	return powertable.Config{
		MaxResistance:     c.Table.MaxResistance,
		StorageMultiplier: c.Table.StorageMultiplier,
	}
}

// LogPath resolves the log destination. "-" is returned unchanged.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(AppDir(), "ptab-editor.log")
}

// AppDir returns ~/.ptab-editor, falling back to the working directory
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, AppDirName)
}
