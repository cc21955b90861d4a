package input

import "context"

// SyncUseCase reconciles local and remote state. SyncAll is push-then-pull;
// retry scheduling belongs to the caller (reconnect events, timers, user
// action), never to the engine itself.
type SyncUseCase interface {
	PushOutbox(ctx context.Context) error
	PullChanges(ctx context.Context) error
	SyncAll(ctx context.Context) error
}
