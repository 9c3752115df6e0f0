package config

import "testing"

func TestLoadBotDefaults(t *testing.T) {
	t.Setenv("SESSION_ID", "01J0000000000000000000000")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://localhost:8080/ws" {
		t.Fatalf("WSURL = %q, want ws://localhost:8080/ws", cfg.WSURL)
	}
	if cfg.TableID != 1 || cfg.SeatID != 2 || cfg.Name != "" {
		t.Fatalf("unexpected bot defaults: %+v", cfg)
	}
}

func TestLoadBotRequiresSession(t *testing.T) {
	t.Setenv("SESSION_ID", "")

	if _, err := LoadBot(); err == nil {
		t.Fatal("LoadBot() expected error, got nil")
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("SESSION_ID", "abc")
	t.Setenv("TABLE_ID", "3")
	t.Setenv("SEAT_ID", "1")
	t.Setenv("BOT_NAME", "BotA")
	t.Setenv("BOT_THINK_MS", "0")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.SessionID != "abc" || cfg.TableID != 3 || cfg.SeatID != 1 || cfg.Name != "BotA" || cfg.ThinkMS != 0 {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}
