package report

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/harvest"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{Path: filepath.Join(t.TempDir(), "router_report.xlsx")}
}

func sampleSnapshot(ts time.Time) *harvest.Snapshot {
	return &harvest.Snapshot{
		Timestamp:    ts,
		CPULoad:      harvest.Float(0.55),
		ProcessCount: harvest.Int(58),
		TopProcesses: []harvest.ProcessSample{
			{
				Name:       harvest.String("dropbear"),
				CPUPercent: harvest.Float(12.5),
				MemPercent: harvest.Float(1.2),
			},
		},
	}
}

func TestOpenCreatesSheets(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	sheets := w.File().GetSheetList()
	assert.Contains(t, sheets, LogsSheet)
	assert.Contains(t, sheets, TopProcessesSheet)
	assert.NotContains(t, sheets, "Sheet1")

	for _, sheet := range []string{LogsSheet, TopProcessesSheet} {
		count, err := w.RowCount(sheet)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "new sheet %q should hold only its header", sheet)
	}

	got, err := w.File().GetCellValue(LogsSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "CPU Load (1-min)", got)

	got, err = w.File().GetCellValue(TopProcessesSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "#1 Name", got)
}

func TestSaveWritesFile(t *testing.T) {
	cfg := testConfig(t)

	w, err := Open(cfg)
	require.NoError(t, err)
	defer w.Close()

	_, statErr := os.Stat(cfg.Path)
	require.True(t, os.IsNotExist(statErr), "nothing should touch disk before Save")

	require.NoError(t, w.Save())

	_, statErr = os.Stat(cfg.Path)
	assert.NoError(t, statErr)
}

func TestRecordWritesCells(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)
	healthRow, processRow, err := w.Record(context.Background(), sampleSnapshot(ts))
	require.NoError(t, err)
	assert.Equal(t, 2, healthRow)
	assert.Equal(t, 2, processRow)

	cases := []struct {
		sheet string
		cell  string
		want  string
	}{
		{LogsSheet, "A2", "2026-03-01 10:30:00"},
		{LogsSheet, "B2", "0.55"},
		{LogsSheet, "C2", "58"},
		{TopProcessesSheet, "A2", "2026-03-01 10:30:00"},
		{TopProcessesSheet, "B2", "dropbear"},
		{TopProcessesSheet, "C2", "12.5"},
		{TopProcessesSheet, "D2", "1.2"},
		// Slot 2 was never sampled, its triplet stays empty.
		{TopProcessesSheet, "E2", ""},
		{TopProcessesSheet, "F2", ""},
		{TopProcessesSheet, "G2", ""},
	}
	for _, tc := range cases {
		got, err := w.File().GetCellValue(tc.sheet, tc.cell)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s!%s", tc.sheet, tc.cell)
	}
}

func TestRecordAbsentVersusZero(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	snapshot := &harvest.Snapshot{
		Timestamp: time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local),
		TopProcesses: []harvest.ProcessSample{
			{Name: harvest.String("ntpd"), CPUPercent: harvest.Float(0)},
		},
	}
	_, _, err = w.Record(context.Background(), snapshot)
	require.NoError(t, err)

	// Absent measurements stay empty, a measured zero is written out.
	for _, cell := range []string{"B2", "C2"} {
		got, err := w.File().GetCellValue(LogsSheet, cell)
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	got, err := w.File().GetCellValue(TopProcessesSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	got, err = w.File().GetCellValue(TopProcessesSheet, "D2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordNilSnapshot(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	_, _, err = w.Record(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidSnapshot))
}

func TestRecordCancelledContext(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = w.Record(ctx, sampleSnapshot(time.Now()))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrOperationTimeout))

	count, err := w.RowCount(LogsSheet)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a cancelled record should not leave rows behind")
}

func TestAppendAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	base := time.Date(2026, 3, 1, 10, 30, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		w, err := Open(cfg)
		require.NoError(t, err)

		_, _, err = w.Record(context.Background(), sampleSnapshot(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		require.NoError(t, w.Save())
		require.NoError(t, w.Close())
	}

	w, err := Open(cfg)
	require.NoError(t, err)
	defer w.Close()

	for _, sheet := range []string{LogsSheet, TopProcessesSheet} {
		count, err := w.RowCount(sheet)
		require.NoError(t, err)
		assert.Equal(t, 4, count, "sheet %q should hold header plus one row per cycle", sheet)
	}

	first, err := w.File().GetCellValue(LogsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 10:30:00", first)

	last, err := w.File().GetCellValue(LogsSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 10:32:00", last)
}

func TestUnsavedRowsNotPersisted(t *testing.T) {
	cfg := testConfig(t)

	w, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Save())
	require.NoError(t, w.Close())

	w, err = Open(cfg)
	require.NoError(t, err)
	_, _, err = w.Record(context.Background(), sampleSnapshot(time.Now()))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = Open(cfg)
	require.NoError(t, err)
	defer w.Close()

	count, err := w.RowCount(LogsSheet)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rows recorded without Save must not survive a reopen")
}

func TestOpenKeepsForeignHeader(t *testing.T) {
	cfg := testConfig(t)

	// Seed a workbook whose Logs header predates the current schema.
	seed := excelize.NewFile()
	require.NoError(t, seed.SetSheetName(seed.GetSheetName(0), LogsSheet))
	header := []any{"When", "Load", "Count"}
	require.NoError(t, seed.SetSheetRow(LogsSheet, "A1", &header))
	row := []any{"2025-12-31 23:59:00", 0.4, 51}
	require.NoError(t, seed.SetSheetRow(LogsSheet, "A2", &row))
	require.NoError(t, seed.SaveAs(cfg.Path))
	require.NoError(t, seed.Close())

	w, err := Open(cfg)
	require.NoError(t, err)
	defer w.Close()

	got, err := w.File().GetCellValue(LogsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "When", got, "an established header is kept as-is")

	count, err := w.RowCount(LogsSheet)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The missing second sheet is still created with its own header.
	count, err = w.RowCount(TopProcessesSheet)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	healthRow, _, err := w.Record(context.Background(), sampleSnapshot(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 3, healthRow, "appends continue below existing rows")
}

func TestEnsureSheetRecreatesDroppedSheet(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.File().DeleteSheet(TopProcessesSheet))
	require.NoError(t, w.EnsureSheet(TopProcessesSheet, ProcessHeader()))

	count, err := w.RowCount(TopProcessesSheet)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnsureSheetIdempotent(t *testing.T) {
	w, err := Open(testConfig(t))
	require.NoError(t, err)
	defer w.Close()

	_, err = w.AppendRow(LogsSheet, []any{"2026-03-01 10:30:00", 0.4, 51})
	require.NoError(t, err)

	// Ensuring again must neither duplicate the header nor drop rows.
	require.NoError(t, w.EnsureSheet(LogsSheet, HealthHeader()))
	require.NoError(t, w.EnsureSheet(LogsSheet, HealthHeader()))

	count, err := w.RowCount(LogsSheet)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := w.File().GetCellValue(LogsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Timestamp", got)
}

func TestIsLockedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "permission", err: os.ErrPermission, want: true},
		{name: "wrapped permission", err: &os.PathError{Op: "open", Path: "report.xlsx", Err: os.ErrPermission}, want: true},
		{name: "windows sharing text", err: stderrors.New("The process cannot access the file because it is being used by another process."), want: true},
		{name: "sharing violation text", err: stderrors.New("open report.xlsx: sharing violation"), want: true},
		{name: "unrelated", err: stderrors.New("no space left on device"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLockedError(tt.err))
		})
	}
}
