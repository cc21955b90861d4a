package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/ports/input"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

var _ input.ExportUseCase = (*ExportService)(nil)

// ExportService renders the tabular dump of a user's registrations. It only
// reads the local store; it never waits for a sync.
type ExportService struct {
	store output.LocalStore
}

// NewExportService constructs an ExportService.
func NewExportService(store output.LocalStore) *ExportService {
	return &ExportService{store: store}
}

var csvHeader = []string{
	"id", "event_id", "participant_name", "payment_status",
	"payment_amount", "deleted", "created_at", "updated_at",
}

// RegistrationsCSV writes every registration recorded by the account,
// tombstones included, oldest first.
func (s *ExportService) RegistrationsCSV(ctx context.Context, createdByUserID string, w io.Writer) error {
	regs, err := s.store.ListRegistrationsByCreator(ctx, createdByUserID)
	if err != nil {
		return fmt.Errorf("export registrations: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export registrations: %w", err)
	}
	for i := range regs {
		r := &regs[i]
		amount := ""
		if r.PaymentAmount != nil {
			amount = strconv.FormatFloat(*r.PaymentAmount, 'f', -1, 64)
		}
		record := []string{
			r.ID,
			r.EventID,
			r.ParticipantName,
			r.PaymentStatus,
			amount,
			strconv.FormatBool(r.Deleted),
			r.CreatedAt.UTC().Format(time.RFC3339Nano),
			r.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export registrations: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export registrations: %w", err)
	}
	return nil
}
