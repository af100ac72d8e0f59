package harvest

// The remote commands whose output the parsers below understand. The
// parsers assume these exact shapes; change a command and its parser
// together.
const (
	// LoadAverageCommand prints the standard loadavg line.
	LoadAverageCommand = "cat /proc/loadavg"

	// ProcessCountCommand counts lines of the BusyBox ps listing,
	// header included.
	ProcessCountCommand = "ps | wc -l"

	// TopProcessesCommand runs one batch iteration of BusyBox top and
	// cuts the ten process rows that follow the summary block. top
	// sorts by CPU usage, so the window holds the top ten.
	TopProcessesCommand = "top -bn1 | sed -n '5,14p'"
)
