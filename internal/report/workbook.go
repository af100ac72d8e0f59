package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/harvest"
	"github.com/yarninisrael/OpenInsight/internal/logger"
)

var errFactory = errors.New()

// Workbook is the append-only log store backed by a single xlsx file.
// All mutations happen in memory; nothing touches disk until Save.
type Workbook struct {
	file *excelize.File
	path string
	mu   sync.Mutex
}

// Open loads the workbook at cfg.Path, creating a fresh one in memory
// when the file does not exist yet. Both history sheets are ensured to
// be present with their header rows before Open returns.
func Open(cfg Config) (*Workbook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
			return nil, errFactory.Wrap(ErrOpenFailed, err).WithData(cfg.Path)
		}
	}

	file, created, err := openFile(cfg.Path)
	if err != nil {
		return nil, err
	}

	w := &Workbook{file: file, path: cfg.Path}

	if created {
		// A fresh workbook starts with one default sheet; rename it so
		// the workbook never carries an empty "Sheet1".
		if err := file.SetSheetName(file.GetSheetName(0), LogsSheet); err != nil {
			w.discard()
			return nil, errFactory.Wrap(ErrSheetInit, err)
		}
	}

	if err := w.EnsureSheet(LogsSheet, HealthHeader()); err != nil {
		w.discard()
		return nil, err
	}
	if err := w.EnsureSheet(TopProcessesSheet, ProcessHeader()); err != nil {
		w.discard()
		return nil, err
	}

	return w, nil
}

func openFile(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, errFactory.Wrap(classifyAccessError(err), err).WithData(path)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, errFactory.Wrap(classifyAccessError(err), err).WithData(path)
	}
	return file, false, nil
}

// EnsureSheet creates the named sheet with the given header when it is
// missing or empty. An existing sheet keeps its rows and its header
// as-is; appends follow the established column order, so drift is
// logged rather than rewritten.
func (w *Workbook) EnsureSheet(name string, header []string) error {
	index, err := w.file.GetSheetIndex(name)
	if err != nil {
		return errFactory.Wrap(ErrSheetInit, err).WithData(name)
	}

	if index == -1 {
		if _, err := w.file.NewSheet(name); err != nil {
			return errFactory.Wrap(ErrSheetInit, err).WithData(name)
		}
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return errFactory.Wrap(ErrReadFailed, err).WithData(name)
	}

	if len(rows) == 0 {
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = h
		}
		if err := w.file.SetSheetRow(name, "A1", &cells); err != nil {
			return errFactory.Wrap(ErrSheetInit, err).WithData(name)
		}
		return nil
	}

	w.verifyHeader(name, rows[0], header)
	return nil
}

// Record appends one harvested snapshot as a row on each history
// sheet and returns both 1-based row ordinals. The workbook is only
// mutated in memory; the rows become durable on the next Save.
func (w *Workbook) Record(ctx context.Context, snapshot *harvest.Snapshot) (int, int, error) {
	if snapshot == nil {
		return 0, 0, errFactory.New(ErrInvalidSnapshot)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-ctx.Done():
		return 0, 0, errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	healthRow, err := w.appendRow(LogsSheet, healthCells(snapshot))
	if err != nil {
		return 0, 0, err
	}

	processRow, err := w.appendRow(TopProcessesSheet, processCells(snapshot))
	if err != nil {
		return healthRow, 0, err
	}

	return healthRow, processRow, nil
}

// AppendRow appends cells on the first row past the sheet's current
// extent and returns that row's 1-based ordinal.
func (w *Workbook) AppendRow(sheet string, cells []any) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appendRow(sheet, cells)
}

func (w *Workbook) appendRow(sheet string, cells []any) (int, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err).WithData(sheet)
	}

	row := len(rows) + 1
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return 0, errFactory.Wrap(ErrAppendFailed, err).WithData(sheet)
	}
	if err := w.file.SetSheetRow(sheet, cell, &cells); err != nil {
		return 0, errFactory.Wrap(ErrAppendFailed, err).WithData(sheet)
	}
	return row, nil
}

// RowCount returns the number of occupied rows on a sheet, header
// included.
func (w *Workbook) RowCount(sheet string) (int, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return 0, errFactory.Wrap(ErrReadFailed, err).WithData(sheet)
	}
	return len(rows), nil
}

// Save writes the whole workbook back to its path. A file held open
// by a spreadsheet application surfaces as ErrLocked so callers can
// treat the condition as transient and retry on a later cycle.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.SaveAs(w.path); err != nil {
		if isLockedError(err) {
			return errFactory.Wrap(ErrLocked, err).WithData(w.path)
		}
		return errFactory.Wrap(ErrSaveFailed, err).WithData(w.path)
	}

	logger.Debug().Str("path", w.path).Msg("Workbook saved")
	return nil
}

// Close releases the in-memory workbook without saving.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return errFactory.Wrap(ErrCloseFailed, err).WithData(w.path)
	}
	return nil
}

// File exposes the underlying workbook for the dashboard rebuild.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// Path returns the file the workbook saves to.
func (w *Workbook) Path() string {
	return w.path
}

func (w *Workbook) discard() {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
}

// healthCells renders the Logs row: timestamp text, then numeric load
// and count. Absent values become empty cells, never zeros.
func healthCells(snapshot *harvest.Snapshot) []any {
	return []any{
		snapshot.Timestamp.Format(TimestampLayout),
		floatCell(snapshot.CPULoad),
		intCell(snapshot.ProcessCount),
	}
}

// processCells renders the Top Processes row: timestamp text, then a
// Name/CPU%/MEM% triplet per slot in rank order.
func processCells(snapshot *harvest.Snapshot) []any {
	cells := make([]any, 0, 1+3*harvest.TopProcessSlots)
	cells = append(cells, snapshot.Timestamp.Format(TimestampLayout))
	for i := 0; i < harvest.TopProcessSlots; i++ {
		var sample harvest.ProcessSample
		if i < len(snapshot.TopProcesses) {
			sample = snapshot.TopProcesses[i]
		}
		cells = append(cells,
			stringCell(sample.Name),
			floatCell(sample.CPUPercent),
			floatCell(sample.MemPercent),
		)
	}
	return cells
}

func floatCell(v harvest.OptionalFloat) any {
	if !v.Valid {
		return nil
	}
	return v.Value
}

func intCell(v harvest.OptionalInt) any {
	if !v.Valid {
		return nil
	}
	return v.Value
}

func stringCell(v harvest.OptionalString) any {
	if !v.Valid {
		return nil
	}
	return v.Value
}

func classifyAccessError(err error) errors.ErrorCode {
	if isLockedError(err) {
		return ErrLocked
	}
	return ErrOpenFailed
}

// isLockedError spots the shapes a sharing conflict takes. On Windows
// an open spreadsheet surfaces as a sharing violation; elsewhere the
// closest signal is a permission error on the path.
func isLockedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "being used by another process") ||
		strings.Contains(msg, "sharing violation")
}
