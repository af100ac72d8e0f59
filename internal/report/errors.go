package report

import "github.com/yarninisrael/OpenInsight/internal/errors"

const (
	ErrInvalidConfig    = errors.ErrorCode("report_invalid_config")
	ErrInvalidPath      = errors.ErrorCode("report_invalid_path")
	ErrInvalidSnapshot  = errors.ErrorCode("report_invalid_snapshot")
	ErrOpenFailed       = errors.ErrorCode("report_open_failed")
	ErrSheetInit        = errors.ErrorCode("report_sheet_init_failed")
	ErrSchemaMismatch   = errors.ErrorCode("report_schema_mismatch")
	ErrAppendFailed     = errors.ErrorCode("report_append_failed")
	ErrReadFailed       = errors.ErrorCode("report_read_failed")
	ErrSaveFailed       = errors.ErrorCode("report_save_failed")
	ErrLocked           = errors.ErrorCode("report_locked")
	ErrCloseFailed      = errors.ErrorCode("report_close_failed")
	ErrOperationTimeout = errors.ErrorCode("report_operation_timeout")
)
