// Package log configures the process logger shared by the metrics registry
// and CLI.
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config represents logger configuration
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
}

// Logger wraps a configured logrus logger.
type Logger struct {
	*logrus.Logger
	logFile *os.File
}

// New creates a logger from the configuration and returns it with a cleanup
// function that closes any open log file.
func New(c *Config) (*Logger, func(), error) {
	if c == nil {
		c = DefaultConfig()
	}

	l := &Logger{Logger: logrus.New()}

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	l.SetLevel(level)

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{})
	}

	switch c.Output {
	case "stdout":
		l.SetOutput(os.Stdout)
	case "file":
		if c.OutputFile == "" {
			return nil, nil, fmt.Errorf("log output is file but output_file is empty")
		}
		if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0o777); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(c.OutputFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o666)
		if err != nil {
			return nil, nil, err
		}
		l.logFile = f
		l.SetOutput(f)
	default:
		l.SetOutput(os.Stderr)
	}

	cleanup := func() {
		if l.logFile != nil {
			_ = l.logFile.Close()
		}
	}
	return l, cleanup, nil
}
