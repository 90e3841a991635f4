// Package config loads phoneloc settings from a YAML file and the
// environment using Viper.
//
// Precedence, highest first: PHONELOC_* environment variables, the config
// file, built-in defaults. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/phoneloc/internal/store"
)

const (
	configFileName = "phoneloc"
	configFileType = "yaml"
	envPrefix      = "PHONELOC"

	KeyDB              = "db"
	KeyDriver          = "driver"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyBackupMarker    = "backup.marker"
	KeyMetricsTextfile = "metrics.textfile"

	DefaultDB        = "phoneloc.db"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config is the resolved configuration.
type Config struct {
	// DB is the path to the SQLite database file.
	DB string

	// Driver is the database/sql driver name: sqlite3 or sqlite.
	Driver string

	Log LogConfig

	// BackupMarker is a file touched after every committed change.
	// Empty disables marking.
	BackupMarker string

	// MetricsTextfile, when set, receives change counters in Prometheus
	// text format after each command.
	MetricsTextfile string

	// File is the config file that was read, or "" if none was found.
	File string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads configuration. When path is non-empty that file must exist.
// Otherwise phoneloc.yaml is looked up in each of searchDirs and its absence
// is not an error.
func Load(path string, searchDirs ...string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeyDriver, store.DriverCGO)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyBackupMarker, "")
	v.SetDefault(KeyMetricsTextfile, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DB:              v.GetString(KeyDB),
		Driver:          v.GetString(KeyDriver),
		BackupMarker:    v.GetString(KeyBackupMarker),
		MetricsTextfile: v.GetString(KeyMetricsTextfile),
		File:            v.ConfigFileUsed(),
		Log: LogConfig{
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
	}

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("config %s: %w", KeyLogLevel, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.DB == "" {
		return fmt.Errorf("config %s: must not be empty", KeyDB)
	}
	switch c.Driver {
	case store.DriverCGO, store.DriverPureGo:
	default:
		return fmt.Errorf("config %s: unknown driver %q (use %s or %s)", KeyDriver, c.Driver, store.DriverCGO, store.DriverPureGo)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config %s: unknown format %q (use text or json)", KeyLogFormat, c.Log.Format)
	}
	return nil
}
