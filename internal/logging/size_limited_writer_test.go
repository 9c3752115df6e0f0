package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spot-trainer/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSizeLimitedWriterTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	writer, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer writer.Close()

	chunk := make([]byte, 512*1024)
	if _, err := writer.Write(chunk); err != nil {
		t.Fatalf("write chunk: %v", err)
	}
	if _, err := writer.Write(chunk); err != nil {
		t.Fatalf("write chunk: %v", err)
	}
	if _, err := writer.Write(chunk); err != nil {
		t.Fatalf("write chunk: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Size() > 1024*1024 {
		t.Fatalf("expected log <= 1MB, got %d", info.Size())
	}
}

func TestInitTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	if err := Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	log.Info().Str("session_id", "s1").Msg("hand_start")
	if _, err := Writer().Write([]byte("{\"msg\":\"raw\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `"message":"hand_start"`) || !strings.Contains(text, `"session_id":"s1"`) {
		t.Fatalf("zerolog line missing: %s", text)
	}
	if !strings.Contains(text, `"msg":"raw"`) {
		t.Fatalf("writer line missing: %s", text)
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	if err := Init(config.LogConfig{Level: "loud"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v", zerolog.GlobalLevel())
	}
}
