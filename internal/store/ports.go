package store

import (
	"context"
	"io"

	"paytrack/internal/core"
)

// Ports for record persistence. The HTTP layer and the export CLI depend
// on these, never on a concrete backend.
type (
	RecordLoader interface {
		Load(ctx context.Context) ([]core.Payment, error)
	}

	RecordAppender interface {
		// Append adds one record and rewrites the backing file in full.
		Append(ctx context.Context, p core.Payment) error
	}

	// RecordExporter writes an arbitrary subset of records as a standalone
	// workbook with the canonical column schema.
	RecordExporter interface {
		Export(ctx context.Context, records []core.Payment, w io.Writer) error
	}
)
