package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spot-trainer/internal/config"
	"spot-trainer/internal/handhistory"
	"spot-trainer/internal/logging"
	"spot-trainer/internal/session"
	httptransport "spot-trainer/internal/transport/http"
	"spot-trainer/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	if err := logging.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("logging init failed")
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg config.AppConfig) error {
	mgr := newManager(cfg, time.Now())
	gateway := ws.NewServer(mgr, ws.Options{
		SendBuffer:     cfg.Server.WSSendBuffer,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	r := httptransport.NewRouter(mgr, gateway)
	if cfg.Server.LogRoutes {
		logRoutes(r)
	}

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("http shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newManager(cfg config.AppConfig, now time.Time) *session.Manager {
	hh := cfg.HandHistory
	return session.NewManager(session.Options{
		MaxTables:       cfg.Server.MaxTablesPerSession,
		BoardAttempts:   cfg.Server.BoardMaxAttempts,
		FirstHandNumber: firstHandNumber(hh.FirstHandNumber, now),
		History: handhistory.Options{
			Site:           hh.SiteName,
			CurrencySymbol: hh.CurrencySymbol,
			CurrencyCode:   hh.CurrencyCode,
			TablePrefix:    hh.TablePrefix,
		},
	})
}

// firstHandNumber keeps hand numbers increasing across restarts when none
// is configured: tenths of a second since 2020 on a twelve digit base.
func firstHandNumber(configured int64, now time.Time) int64 {
	if configured > 0 {
		return configured
	}
	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return 100_000_000_000 + int64(now.Sub(epoch)/(100*time.Millisecond))
}

func logRoutes(r chi.Router) {
	httptransport.LogRoutes(r)
}
