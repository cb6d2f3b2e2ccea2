package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////
// Logging Configuration Functions
////////////////////////////////////////////////////////////////////////////////

type LogConfig struct {
	Path  string `yaml:"path" env:"PATH"`
	Json  bool   `yaml:"json" env:"JSON"`
	Debug bool   `yaml:"debug" env:"DEBUG"`
}

// InitLogger configures the standard logrus logger and, when a path is set,
// mirrors every entry into that file. The returned closer releases the file.
func InitLogger(cfg LogConfig) (io.Closer, error) {
	log.SetFormatter(formatter(cfg, true))

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if cfg.Path == "" {
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.AddHook(lfshook.NewHook(logFile, formatter(cfg, false)))
	return logFile, nil
}

func formatter(cfg LogConfig, console bool) log.Formatter {
	if cfg.Json {
		return &log.JSONFormatter{}
	}
	return &log.TextFormatter{
		ForceColors:   console,
		DisableColors: !console,
		FullTimestamp: true,
	}
}
