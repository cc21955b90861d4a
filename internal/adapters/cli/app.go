// Package cli is the presentation adapter: cobra commands that invoke the
// workflow and sync use cases and render their state. It only reads the local
// store and never mutates it directly.
package cli

import (
	"context"
	"log"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/content"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/input"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

// App bundles everything the commands need.
type App struct {
	Registrations input.RegistrationUseCase
	Sync          input.SyncUseCase
	Export        input.ExportUseCase
	Store         output.LocalStore
	Gateway       output.RemoteGateway
	Translator    output.T
	Catalog       *content.Catalog
	Locale        string
}

// session fetches the current session; a gateway failure degrades to nil
// (offline) instead of aborting the command.
func (a *App) session(ctx context.Context) *entities.Session {
	s, err := a.Gateway.Session(ctx)
	if err != nil {
		log.Printf("session lookup failed, continuing offline: %v", err)
		return nil
	}
	return s
}

// t renders a translated message for the configured locale.
func (a *App) t(key string, data map[string]any) string {
	return a.Translator.T(a.Locale, key, data)
}

// syncBestEffort runs one sync cycle after a local mutation. Failures only
// get logged: local state is already durable and the outbox keeps the intent.
func (a *App) syncBestEffort(ctx context.Context) {
	if err := a.Sync.SyncAll(ctx); err != nil {
		log.Printf("sync: %v", err)
	}
}

// activity resolves an activity by id or short name.
func (a *App) activity(arg string) (*entities.Activity, error) {
	if act, err := a.Catalog.ByID(arg); err == nil {
		return act, nil
	}
	return a.Catalog.ByShortName(arg)
}
