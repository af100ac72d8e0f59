package report

import "github.com/yarninisrael/OpenInsight/internal/logger"

// verifyHeader compares an existing sheet's header row against the
// expected one. A mismatch only produces a warning: rewriting the
// header of a sheet that already holds rows would relabel history.
func (w *Workbook) verifyHeader(sheet string, got, want []string) {
	if headerMatches(got, want) {
		return
	}

	logger.Warn().
		Str("error_code", string(ErrSchemaMismatch)).
		Str("sheet", sheet).
		Strs("expected", want).
		Strs("found", got).
		Msg("Sheet header differs from the expected schema, keeping the existing sheet")
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
