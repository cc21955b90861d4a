package application

import (
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

// participantWire is the outbox payload of a participants upsert: the full
// record, snake_case like the remote table.
type participantWire struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	DisplayName string    `json:"display_name"`
	BirthYear   *int      `json:"birth_year,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func participantToWire(p *entities.Participant) participantWire {
	return participantWire{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		DisplayName: p.DisplayName,
		BirthYear:   p.BirthYear,
		Notes:       p.Notes,
		Deleted:     p.Deleted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func wireToParticipant(w participantWire) *entities.Participant {
	return &entities.Participant{
		ID:          w.ID,
		OwnerUserID: w.OwnerUserID,
		DisplayName: w.DisplayName,
		BirthYear:   w.BirthYear,
		Notes:       w.Notes,
		Deleted:     w.Deleted,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
