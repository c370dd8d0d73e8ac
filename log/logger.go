// Package log provides the kit's zerolog-based structured logger.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/IsaacT30/airport-console/core/tag"
)

// Logger wraps a zerolog.Logger, keeping hold of its writer for cleanup.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
}

// Close releases the logger's writer when it owns one (file output).
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// New creates a Logger writing to the console.
func New(opts ...Option) *Logger {
	return newLogger(consoleWriter(), opts...)
}

// NewFile creates a Logger writing to a size-rotated file.
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	w := c.rotatingWriter()
	logger := newLogger(w, opts...)
	logger.closer = w
	return logger, nil
}

// NewMulti creates a Logger writing to both console and a rotated file.
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	fw := c.rotatingWriter()
	logger := newLogger(zerolog.MultiLevelWriter(fw, consoleWriter()), opts...)
	logger.closer = fw
	return logger, nil
}

// FileConfig controls file output and rotation.
type FileConfig struct {
	Filepath   string `json:"filepath" default:"log"`
	Filename   string `json:"filename" default:"airportctl"`
	FileExt    string `json:"file_ext" default:"log"`
	MaxSize    int    `json:"max_size" default:"100"` // megabytes
	MaxBackups int    `json:"max_backups" default:"5"`
	MaxAge     int    `json:"max_age" default:"30"` // days
	Compress   bool   `json:"compress"`
}

func (c FileConfig) rotatingWriter() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(c.Filepath, c.Filename+"."+c.FileExt),
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
	}
}
