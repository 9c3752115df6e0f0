package main

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spot-trainer/internal/config"
	"spot-trainer/internal/logging"
	"spot-trainer/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	logCfg, err := config.LoadLog()
	if err != nil {
		log.Fatal().Err(err).Msg("load log config failed")
	}
	if err := logging.Init(logCfg); err != nil {
		log.Fatal().Err(err).Msg("logging init failed")
	}
	defer logging.Close()
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("bot stopped")
	}
}

func run(ctx context.Context, cfg config.BotConfig) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.WSURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	b := &bot{
		cfg: cfg,
		id:  ws.Identity{SessionID: cfg.SessionID, TableID: cfg.TableID, SeatID: cfg.SeatID},
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		out: make(chan any, 4),
	}
	b.out <- ws.JoinSessionMessage{Type: ws.TypeJoinSession, Identity: b.id, DisplayName: cfg.Name}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(b.out)
		return b.readLoop(gctx, conn)
	})
	g.Go(func() error {
		for msg := range b.out {
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return conn.Close()
	})
	err = g.Wait()
	if ctx.Err() != nil || errors.Is(err, errDone) {
		return nil
	}
	return err
}
