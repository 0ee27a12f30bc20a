// Package config merges command-line flags with IECS_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. IECS_CLUSTER.
const EnvPrefix = "IECS"

// Defaults.
const (
	DefaultCommand     = "/bin/bash"
	DefaultInteractive = true
	DefaultLogLevel    = "info"
)

// Flag names. They double as viper keys.
const (
	KeyRegion      = "region"
	KeyProfile     = "profile"
	KeyLogLevel    = "log-level"
	KeyPlugin      = "plugin"
	KeyCluster     = "cluster"
	KeyTask        = "task"
	KeyContainer   = "container"
	KeyCommand     = "command"
	KeyInteractive = "interactive"
)

// Config is the resolved invocation settings. Empty Cluster, Task or
// Container means the operator is prompted for it.
type Config struct {
	Region      string
	Profile     string
	LogLevel    string
	Plugin      string
	Cluster     string
	Task        string
	Container   string
	Command     string
	Interactive bool
}

// Load reads every flag in flags, letting IECS_* variables fill values the
// operator did not pass explicitly. Flags absent from the set are read from
// the environment only.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyCommand, DefaultCommand)
	v.SetDefault(KeyInteractive, DefaultInteractive)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	return &Config{
		Region:      strings.TrimSpace(v.GetString(KeyRegion)),
		Profile:     strings.TrimSpace(v.GetString(KeyProfile)),
		LogLevel:    v.GetString(KeyLogLevel),
		Plugin:      strings.TrimSpace(v.GetString(KeyPlugin)),
		Cluster:     strings.TrimSpace(v.GetString(KeyCluster)),
		Task:        strings.TrimSpace(v.GetString(KeyTask)),
		Container:   strings.TrimSpace(v.GetString(KeyContainer)),
		Command:     v.GetString(KeyCommand),
		Interactive: v.GetBool(KeyInteractive),
	}, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if _, _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("configuration error: %w\n\nHint: Use one of debug, info, warn or error:\n  --log-level=debug\n  IECS_LOG_LEVEL=debug", err)
	}
	return nil
}

// ValidateExec additionally checks the settings exec needs.
func (c *Config) ValidateExec() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("configuration error: empty 'command'\n\nHint: Specify the command to run in the container:\n  --command=%s", DefaultCommand)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level and its canonical name.
// An empty string means info.
func ParseLogLevel(input string) (slog.Level, string, error) {
	level := strings.ToLower(strings.TrimSpace(input))
	switch level {
	case "", "info":
		return slog.LevelInfo, "info", nil
	case "debug":
		return slog.LevelDebug, "debug", nil
	case "warn", "warning":
		return slog.LevelWarn, "warn", nil
	case "error", "err":
		return slog.LevelError, "error", nil
	default:
		return slog.LevelInfo, "", fmt.Errorf("unsupported log level %q", input)
	}
}
