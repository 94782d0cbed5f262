package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brickfolio/localsync/internal/adapter"
	"github.com/brickfolio/localsync/internal/config"
	"github.com/brickfolio/localsync/internal/coordinator"
	"github.com/brickfolio/localsync/internal/logger"
	"github.com/brickfolio/localsync/internal/service"
	"github.com/brickfolio/localsync/internal/store"
	"github.com/brickfolio/localsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("localsync-agent")
	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	localStore := store.NewStore(cfg.Storage, log)
	coord := coordinator.New(cfg.Coordinator, log)

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	engine := service.New(localStore, coord, serverAdapter, cfg, log)

	ctx := context.Background()
	if err := engine.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init sync engine")
	}

	if cfg.Adapter.Token != "" {
		serverAdapter.SetToken(cfg.Adapter.Token)

		userID, err := adapter.UserIDFromToken(cfg.Adapter.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("parse user identity from token")
		}
		if err := engine.SetUserID(ctx, userID); err != nil {
			log.Fatal().Err(err).Msg("set user identity")
		}

		log.Info().Int64("userID", userID).Msg("signed in from configured token")
	} else {
		log.Warn().Msg("no token configured, operations will queue without syncing")
	}

	workers.NewWorkers(engine.Job()).Run()

	wake := make(chan os.Signal, 1)
	signal.Notify(wake, syscall.SIGCONT)
	go func() {
		for range wake {
			log.Info().Msg("wake signal received, triggering sync")
			engine.WakeUp(ctx)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop

	log.Info().Msg("shutting down")
	engine.Destroy()
	if err := coord.Close(); err != nil {
		log.Error().Err(err).Msg("close coordinator")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
