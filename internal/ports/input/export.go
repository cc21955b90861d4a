package input

import (
	"context"
	"io"
)

// ExportUseCase produces the tabular dump of a user's registrations.
type ExportUseCase interface {
	RegistrationsCSV(ctx context.Context, createdByUserID string, w io.Writer) error
}
