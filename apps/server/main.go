package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/api"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/auth"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/config"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/dispatch"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/gateway"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/store"
	"github.com/DuckHunt-discord/Coroned-event/corona"
	"github.com/DuckHunt-discord/Coroned-event/logger"
)

func main() {
	log := logger.Component("server")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	balance := corona.DefaultConfig()
	if cfg.BalanceFile != "" {
		if balance, err = corona.LoadConfigFile(cfg.BalanceFile); err != nil {
			log.WithError(err).Fatal("Failed to load balance file")
		}
	}
	if cfg.Seed != 0 {
		balance.Seed = cfg.Seed
	}
	engine, err := corona.NewEngine(balance)
	if err != nil {
		log.WithError(err).Fatal("Failed to init engine")
	}

	players, storeMode, err := store.NewServiceFromConfig(cfg, engine.NewPlayer)
	if err != nil {
		log.WithError(err).Fatal("Failed to init player store")
	}
	defer players.Close()

	bridges, err := auth.NewBridges(cfg.BridgeTokens)
	if err != nil {
		log.WithError(err).Fatal("Failed to init bridge auth")
	}
	if bridges.Open() {
		log.Warn("No bridge token configured, accepting every connection")
	}

	dispatcher := dispatch.New(engine, players, dispatch.Options{
		IdleTimeout: cfg.LaneIdleTimeout,
		QueueSize:   cfg.LaneQueue,
	})
	defer dispatcher.Close()

	gw := gateway.New(bridges, dispatcher)
	defer gw.Close()

	apiHTTP := api.NewHTTPHandler(engine, players, bridges, cfg.IsOwner, func() map[string]any {
		return map[string]any{
			"store":   storeMode,
			"bridges": gw.Connections(),
			"lanes":   dispatcher.Lanes(),
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	apiHTTP.RegisterRoutes(mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("mode", storeMode).Info("Player store ready")
	log.WithField("bridges", bridges.Names()).Info("Bridge auth ready")
	log.WithField("addr", cfg.Addr).Info("Starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Failed to start")
	}
	log.Info("Server stopped")
}
