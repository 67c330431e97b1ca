package xlsx

import (
	"context"
	"fmt"
	"io"
	"os"

	"paytrack/internal/core"
)

// Exporter writes record subsets as standalone workbooks with the same
// column schema as the canonical store. The zero value exports to the
// default sheet name.
type Exporter struct {
	Sheet string
}

func (e Exporter) sheetName() string {
	if e.Sheet == "" {
		return DefaultSheet
	}
	return e.Sheet
}

// Export streams the records as a workbook to w.
func (e Exporter) Export(_ context.Context, records []core.Payment, w io.Writer) error {
	f, err := buildWorkbook(e.sheetName(), records)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportFile writes the records as a new workbook at path.
func (e Exporter) ExportFile(ctx context.Context, records []core.Payment, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}
	if err := e.Export(ctx, records, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close export file %s: %w", path, err)
	}
	return nil
}
