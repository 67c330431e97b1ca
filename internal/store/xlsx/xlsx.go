// Package xlsx persists payment records to an Excel workbook. The workbook
// is the system of record: one sheet, a header row, then one row per
// payment in insertion order. Appends rewrite the whole file; there is no
// incremental append format that is safe to assume.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"paytrack/internal/core"
)

const (
	DefaultSheet    = "Records"
	timestampLayout = "2006-01-02 15:04:05"
)

// Canonical column order: client, service, amount, timestamp.
var header = []string{"client", "service", "amount", "timestamp"}

// Store is an excelize-backed record store. Access is serialized with a
// mutex so concurrent handlers cannot tear the full-file rewrite, but
// writers in other processes still race (last write wins).
type Store struct {
	mu     sync.Mutex
	path   string
	sheet  string
	loc    *time.Location
	items  []core.Payment
	loaded bool
}

func NewStore(path, sheet string, loc *time.Location) *Store {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Store{path: path, sheet: sheet, loc: loc}
}

// Load returns all persisted records in insertion order. A missing file is
// an empty store (first run); an unreadable or corrupt workbook is an
// error so the caller can decide between starting empty and aborting.
func (s *Store) Load(ctx context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]core.Payment, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Append validates the record, adds it to the in-memory sequence and
// rewrites the workbook in full. The in-memory state is rolled back when
// the write fails.
func (s *Store) Append(ctx context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	s.items = append(s.items, p)
	if err := s.rewrite(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return err
	}
	slog.InfoContext(ctx, "Payment saved to workbook",
		"path", s.path,
		"client", p.Client,
		"amount_cents", p.Amount.Cents,
		"records", len(s.items))
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.items = nil
		s.loaded = true
		return nil
	}
	items, err := readWorkbook(ctx, s.path, s.sheet, s.loc)
	if err != nil {
		return err
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Store) rewrite() error {
	f, err := buildWorkbook(s.sheet, s.items)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

func readWorkbook(ctx context.Context, path, sheet string, loc *time.Location) ([]core.Payment, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q from %s: %w", sheet, path, err)
	}

	items := make([]core.Payment, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		p, err := parseRow(row, loc)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable workbook row",
				"path", path, "row", i+1, "error", err)
			continue
		}
		items = append(items, p)
	}
	return items, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header[0])
}

func parseRow(row []string, loc *time.Location) (core.Payment, error) {
	client := strings.TrimSpace(cell(row, 0))
	service := strings.TrimSpace(cell(row, 1))
	if client == "" {
		return core.Payment{}, core.ErrEmptyClient
	}
	if service == "" {
		return core.Payment{}, core.ErrEmptyService
	}
	cents, err := core.ParseDecimalToCents(cell(row, 2))
	if err != nil {
		return core.Payment{}, fmt.Errorf("amount %q: %w", cell(row, 2), err)
	}
	at, err := parseTimestamp(cell(row, 3), loc)
	if err != nil {
		return core.Payment{}, fmt.Errorf("timestamp %q: %w", cell(row, 3), err)
	}
	return core.Payment{
		Client:   client,
		Service:  service,
		Amount:   core.Money{Cents: cents},
		LoggedAt: at,
	}, nil
}

func parseTimestamp(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{timestampLayout, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnknownTimestamp
}

var errUnknownTimestamp = errors.New("unrecognized timestamp format")

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func buildWorkbook(sheet string, records []core.Payment) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet %q: %w", sheet, err)
	}
	for col, name := range header {
		cellRef, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheet, cellRef, name); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for i, r := range records {
		values := []any{r.Client, r.Service, r.Amount.Dollars(), r.LoggedAt.Format(timestampLayout)}
		for col, v := range values {
			cellRef, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}
	return f, nil
}
