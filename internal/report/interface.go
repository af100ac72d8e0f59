package report

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/yarninisrael/OpenInsight/internal/harvest"
)

// Store is the surface the collection cycle writes through. Workbook
// is the xlsx-backed implementation.
type Store interface {
	// Record appends one snapshot to both history sheets and returns
	// the 1-based row ordinals the data landed on.
	Record(ctx context.Context, snapshot *harvest.Snapshot) (healthRow, processRow int, err error)

	// Save persists all in-memory changes to the backing file.
	Save() error

	// RowCount reports the occupied rows of a sheet, header included.
	RowCount(sheet string) (int, error)

	// File exposes the underlying workbook for chart generation.
	File() *excelize.File

	// Close releases the workbook without saving.
	Close() error
}

var _ Store = (*Workbook)(nil)
