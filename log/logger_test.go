package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithLevel(t *testing.T) {
	logger := New(WithLevel(zerolog.WarnLevel))
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", logger.GetLevel())
	}
}

func TestNewFileWritesAndCloses(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewFile(FileConfig{Filepath: dir, Filename: "test"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info().Str("component", "session").Msg("hydrated")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected log output in file")
	}
}

func TestFileConfigDefaults(t *testing.T) {
	logger, err := NewFile(FileConfig{Filepath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()
}

func TestGlobalLogger(t *testing.T) {
	original := G
	defer SetGlobalLogger(original)

	SetGlobalLogger(New(WithLevel(zerolog.ErrorLevel)))
	if G.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected error level on global logger, got %v", G.GetLevel())
	}
}
