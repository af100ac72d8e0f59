package report

import (
	"fmt"

	"github.com/yarninisrael/OpenInsight/internal/harvest"
)

// Sheet names inside the workbook. Logs and Top Processes are
// append-only history; Dashboard is regenerated and owns no data.
const (
	LogsSheet         = "Logs"
	TopProcessesSheet = "Top Processes"
	DashboardSheet    = "Dashboard"
)

// TimestampLayout is the cell format for the timestamp column. Rows
// store timestamps as text in local time.
const TimestampLayout = "2006-01-02 15:04:05"

// HealthHeader returns the header row of the Logs sheet.
func HealthHeader() []string {
	return []string{"Timestamp", "CPU Load (1-min)", "Process Count"}
}

// ProcessHeader returns the header row of the Top Processes sheet:
// a timestamp column followed by a Name/CPU%/MEM% triplet per slot.
func ProcessHeader() []string {
	header := make([]string, 0, 1+3*harvest.TopProcessSlots)
	header = append(header, "Timestamp")
	for rank := 1; rank <= harvest.TopProcessSlots; rank++ {
		header = append(header,
			fmt.Sprintf("#%d Name", rank),
			fmt.Sprintf("#%d CPU%%", rank),
			fmt.Sprintf("#%d MEM%%", rank),
		)
	}
	return header
}

// Column positions (1-based) of a ranked process triplet on the
// Top Processes sheet.

func ProcessNameColumn(rank int) int {
	return 2 + 3*(rank-1)
}

func ProcessCPUColumn(rank int) int {
	return 3 + 3*(rank-1)
}

func ProcessMemColumn(rank int) int {
	return 4 + 3*(rank-1)
}
