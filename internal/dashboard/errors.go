package dashboard

import "github.com/yarninisrael/OpenInsight/internal/errors"

const (
	ErrReadHistory = errors.ErrorCode("dashboard_read_failed")
	ErrSheetReset  = errors.ErrorCode("dashboard_sheet_reset_failed")
	ErrLabelWrite  = errors.ErrorCode("dashboard_label_write_failed")
	ErrChartAdd    = errors.ErrorCode("dashboard_chart_failed")
)
