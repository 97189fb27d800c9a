package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/FCamaggi/aLittleWordy/apps/server/internal/auth"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/config"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/gateway"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/httpapi"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/lobby"
	"github.com/FCamaggi/aLittleWordy/apps/server/internal/store"
	"github.com/FCamaggi/aLittleWordy/wordy"
	"github.com/FCamaggi/aLittleWordy/wordy/npc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	storeService, storeMode, err := store.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init store")
	}
	defer storeService.Close()

	seats, err := auth.NewSeatIssuer(cfg.SeatTokenSecret, cfg.SeatTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init seat tokens")
	}

	personas := npc.DefaultRegistry()
	if cfg.BotPersonasPath != "" {
		if err := personas.LoadFromFile(cfg.BotPersonasPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.BotPersonasPath).Msg("failed to load bot personas")
		}
	}
	bots := npc.NewManager(personas, 0, cfg.BotThinkMin, cfg.BotThinkMax)

	rules := wordy.DefaultConfig()
	rules.PendingTimeout = cfg.PendingTimeout

	lby := lobby.New(lobby.Options{
		Rules: rules,
		Store: storeService,
		Bots:  bots,
	})
	gw := gateway.New(lby, seats, cfg.ClientOrigin)
	api := httpapi.New(httpapi.Options{
		Lobby:        lby,
		Auth:         seats,
		Personas:     personas,
		WebSocket:    gw,
		ClientOrigin: cfg.ClientOrigin,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go lby.Run(ctx, cfg.SweepInterval, cfg.RoomTTL)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		gw.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
		lby.Shutdown()
	}()

	log.Info().
		Str("addr", cfg.Addr).
		Str("store", storeMode).
		Int("personas", personas.Count()).
		Dur("roomTTL", cfg.RoomTTL).
		Dur("pendingTimeout", cfg.PendingTimeout).
		Msg("starting wordy server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if cfg.LogFormat == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
