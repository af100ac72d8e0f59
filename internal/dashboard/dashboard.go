// Package dashboard regenerates the chart sheet of the report
// workbook from the full recorded history. The sheet is derived data:
// it is deleted and rebuilt on every cycle rather than patched.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/harvest"
	"github.com/yarninisrael/OpenInsight/internal/logger"
	"github.com/yarninisrael/OpenInsight/internal/report"
)

const (
	chartWidth  = 1060
	chartHeight = 530

	// First column of the label strip on the Dashboard sheet (AA).
	// Per-process chart series take their names from these cells.
	labelStartColumn = 27

	minHistoryRows = 2
)

var errFactory = errors.New()

// Rebuild deletes and recreates the Dashboard sheet from the rows
// currently on the history sheets, then saves the workbook. With
// fewer than two data-bearing rows on the Logs sheet it is a no-op
// and any existing Dashboard sheet is left alone. Chart ranges cover
// the full history, so rebuild cost grows with the log.
func Rebuild(store report.Store) error {
	logsRows, err := store.RowCount(report.LogsSheet)
	if err != nil {
		return errFactory.Wrap(ErrReadHistory, err)
	}
	if logsRows < minHistoryRows {
		logger.Debug().Int("rows", logsRows).Msg("Not enough history for dashboard charts yet")
		return nil
	}

	file := store.File()
	if err := file.DeleteSheet(report.DashboardSheet); err != nil {
		return errFactory.Wrap(ErrSheetReset, err)
	}
	if _, err := file.NewSheet(report.DashboardSheet); err != nil {
		return errFactory.Wrap(ErrSheetReset, err)
	}

	charts := 2
	if err := addHealthCharts(file, logsRows); err != nil {
		return err
	}

	processRows, err := store.RowCount(report.TopProcessesSheet)
	if err != nil {
		return errFactory.Wrap(ErrReadHistory, err)
	}
	if processRows >= minHistoryRows {
		if err := addProcessCharts(file, processRows); err != nil {
			return err
		}
		charts = 4
	}

	if err := store.Save(); err != nil {
		return err
	}

	logger.Info().Int("charts", charts).Msg("Dashboard refreshed")
	return nil
}

// addHealthCharts draws the two aggregate charts from the Logs sheet,
// CPU load and process count over the full history.
func addHealthCharts(file *excelize.File, lastRow int) error {
	categories := sheetRange(report.LogsSheet, "A", lastRow)

	load := lineChart("CPU Load (1-min avg)", "Load", []excelize.ChartSeries{{
		Name:       report.LogsSheet + "!$B$1",
		Categories: categories,
		Values:     sheetRange(report.LogsSheet, "B", lastRow),
	}})
	if err := file.AddChart(report.DashboardSheet, "A1", load); err != nil {
		return errFactory.Wrap(ErrChartAdd, err).WithData("cpu load")
	}

	count := lineChart("Active Process Count", "Count", []excelize.ChartSeries{{
		Name:       report.LogsSheet + "!$C$1",
		Categories: categories,
		Values:     sheetRange(report.LogsSheet, "C", lastRow),
	}})
	if err := file.AddChart(report.DashboardSheet, "A35", count); err != nil {
		return errFactory.Wrap(ErrChartAdd, err).WithData("process count")
	}

	return nil
}

// addProcessCharts draws the two ranked charts, one CPU% and one MEM%
// series per rank slot, labeled from the latest recorded names.
func addProcessCharts(file *excelize.File, lastRow int) error {
	labels, err := seriesLabels(file, lastRow)
	if err != nil {
		return err
	}
	if err := writeLabelStrip(file, labels); err != nil {
		return err
	}

	categories := sheetRange(report.TopProcessesSheet, "A", lastRow)

	cpuSeries, err := processSeries(categories, lastRow, report.ProcessCPUColumn)
	if err != nil {
		return err
	}
	cpu := lineChart("Top 10 Processes — CPU%", "CPU %", cpuSeries)
	if err := file.AddChart(report.DashboardSheet, "A69", cpu); err != nil {
		return errFactory.Wrap(ErrChartAdd, err).WithData("process cpu")
	}

	memSeries, err := processSeries(categories, lastRow, report.ProcessMemColumn)
	if err != nil {
		return err
	}
	mem := lineChart("Top 10 Processes — MEM%", "MEM %", memSeries)
	if err := file.AddChart(report.DashboardSheet, "A103", mem); err != nil {
		return errFactory.Wrap(ErrChartAdd, err).WithData("process mem")
	}

	return nil
}

// seriesLabels derives the ten slot labels from the newest row of the
// Top Processes sheet.
func seriesLabels(file *excelize.File, lastRow int) ([]string, error) {
	labels := make([]string, harvest.TopProcessSlots)
	for rank := 1; rank <= harvest.TopProcessSlots; rank++ {
		cell, err := excelize.CoordinatesToCellName(report.ProcessNameColumn(rank), lastRow)
		if err != nil {
			return nil, errFactory.Wrap(ErrReadHistory, err)
		}
		raw, err := file.GetCellValue(report.TopProcessesSheet, cell)
		if err != nil {
			return nil, errFactory.Wrap(ErrReadHistory, err)
		}
		labels[rank-1] = SeriesLabel(raw, rank)
	}
	return labels, nil
}

// writeLabelStrip lands the labels in AA1 onward on the Dashboard
// sheet. Chart series names must be cell references, so the labels
// need cells of their own.
func writeLabelStrip(file *excelize.File, labels []string) error {
	cells := make([]any, len(labels))
	for i, label := range labels {
		cells[i] = label
	}

	start, err := excelize.CoordinatesToCellName(labelStartColumn, 1)
	if err != nil {
		return errFactory.Wrap(ErrLabelWrite, err)
	}
	if err := file.SetSheetRow(report.DashboardSheet, start, &cells); err != nil {
		return errFactory.Wrap(ErrLabelWrite, err)
	}
	return nil
}

func processSeries(categories string, lastRow int, column func(rank int) int) ([]excelize.ChartSeries, error) {
	series := make([]excelize.ChartSeries, 0, harvest.TopProcessSlots)
	for rank := 1; rank <= harvest.TopProcessSlots; rank++ {
		name, err := excelize.CoordinatesToCellName(labelStartColumn+rank-1, 1, true)
		if err != nil {
			return nil, errFactory.Wrap(ErrChartAdd, err)
		}
		columnName, err := excelize.ColumnNumberToName(column(rank))
		if err != nil {
			return nil, errFactory.Wrap(ErrChartAdd, err)
		}
		series = append(series, excelize.ChartSeries{
			Name:       report.DashboardSheet + "!" + name,
			Categories: categories,
			Values:     sheetRange(report.TopProcessesSheet, columnName, lastRow),
		})
	}
	return series, nil
}

func lineChart(title, yTitle string, series []excelize.ChartSeries) *excelize.Chart {
	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Dimension: excelize.ChartDimension{
			Width:  chartWidth,
			Height: chartHeight,
		},
		Legend: excelize.ChartLegend{Position: "r"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Time"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yTitle}}},
	}
}

// sheetRange builds an absolute one-column reference covering rows 2
// through lastRow.
func sheetRange(sheet, column string, lastRow int) string {
	return fmt.Sprintf("%s!$%s$2:$%s$%d", quoteSheet(sheet), column, column, lastRow)
}

func quoteSheet(sheet string) string {
	if strings.Contains(sheet, " ") {
		return "'" + sheet + "'"
	}
	return sheet
}
