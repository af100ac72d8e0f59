package dashboard

import (
	"fmt"
	"path"
	"strings"
)

// SeriesLabel shortens a recorded process name into a chart legend
// label: first token only, directory prefix dropped, one layer of
// {} or [] wrapping removed. Rank slots with no recorded name get a
// positional "#<rank>" label.
func SeriesLabel(raw string, rank int) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fmt.Sprintf("#%d", rank)
	}
	return stripWrapping(path.Base(fields[0]))
}

func stripWrapping(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '{' && last == '}') || (first == '[' && last == ']') {
		return s[1 : len(s)-1]
	}
	return s
}
