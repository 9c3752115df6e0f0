package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"spot-trainer/internal/config"
)

func TestFirstHandNumber(t *testing.T) {
	if got := firstHandNumber(42, time.Now()); got != 42 {
		t.Fatalf("configured number ignored: %d", got)
	}
	a := firstHandNumber(0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := firstHandNumber(0, time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))
	if b-a != 10 {
		t.Fatalf("expected 10 numbers per second, got %d", b-a)
	}
	if a < 100_000_000_000 || a > 999_999_999_999 {
		t.Fatalf("expected a twelve digit number, got %d", a)
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := config.AppConfig{
		Server: config.ServerConfig{
			HTTPAddr:            addr,
			MaxTablesPerSession: 4,
			WSSendBuffer:        8,
			ShutdownTimeout:     time.Second,
		},
		HandHistory: config.HandHistoryConfig{SiteName: "PokerStars", CurrencySymbol: "€", CurrencyCode: "EUR", TablePrefix: "Spot"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
