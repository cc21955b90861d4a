package main

import (
	"context"
	"log"
	"os"

	"github.com/jlsanzbreton/puebla-bot/internal/adapters/cli"
	"github.com/jlsanzbreton/puebla-bot/internal/application"
	"github.com/jlsanzbreton/puebla-bot/internal/config"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/bus"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/content"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/i18n"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/localdb"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/remote"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuración: %v", err)
	}

	ctx := context.Background()

	eventBus := bus.New()

	store, err := localdb.Open(cfg.LocalDBPath, eventBus)
	if err != nil {
		log.Fatalf("base de datos local: %v", err)
	}
	defer store.Close()

	// The backend being unreachable is a normal condition for an offline-first
	// app: the outbox keeps the intents and the pull cursor stays put.
	var gateway output.RemoteGateway
	pool, err := remote.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("backend no disponible, modo offline: %v", err)
		gateway = remote.Unavailable{}
	} else {
		defer pool.Close()
		gateway = remote.NewGateway(pool, cfg.Identity)
	}

	catalog, err := content.Load()
	if err != nil {
		log.Fatalf("programa de fiestas: %v", err)
	}

	app := &cli.App{
		Registrations: application.NewRegistrationService(store, gateway, eventBus),
		Sync:          application.NewSyncService(store, gateway, eventBus),
		Export:        application.NewExportService(store),
		Store:         store,
		Gateway:       gateway,
		Translator:    i18n.NewTranslator(cfg.Locale),
		Catalog:       catalog,
		Locale:        cfg.Locale,
	}

	root := cli.NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
