package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/topi314/tint"

	"bitflags/internal/prof"
)

// persistentKeys are the root flags that the user config and BITFLAGS_*
// environment variables may set.
var persistentKeys = []string{
	"color", "quiet", "timings", "max-diagnostics", "log-level",
	"cpu-profile", "mem-profile", "runtime-trace",
}

func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		v.SetConfigFile(filepath.Join(home, ".bitflags.toml"))
	}
	v.SetEnvPrefix("bitflags")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range persistentKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (a.cfgFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// settings are the effective persistent options after flags, environment
// and user config were merged.
type settings struct {
	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	logLevel       string
}

func (a *app) settings() (settings, error) {
	s := settings{
		color:          strings.ToLower(a.v.GetString("color")),
		quiet:          a.v.GetBool("quiet"),
		timings:        a.v.GetBool("timings"),
		maxDiagnostics: a.v.GetInt("max-diagnostics"),
		logLevel:       a.v.GetString("log-level"),
	}
	switch s.color {
	case "auto", "on", "off":
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.color)
	}
	return s, nil
}

// useColor resolves --color for a stream.
func (s settings) useColor(f *os.File) bool {
	switch s.color {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f)
}

func (a *app) startProfiling() error {
	cfg := prof.Config{
		CPU:   a.v.GetString("cpu-profile"),
		Mem:   a.v.GetString("mem-profile"),
		Trace: a.v.GetString("runtime-trace"),
	}
	if !cfg.Enabled() {
		return nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	a.profile = s
	slog.Debug("profiling enabled", "cpu", cfg.CPU, "mem", cfg.Mem, "trace", cfg.Trace)
	return nil
}

func (a *app) setupLogging(w io.Writer) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", s.logLevel, err)
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !s.useColor(f)
	}
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})))
	return nil
}
