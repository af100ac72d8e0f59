package harvest

import (
	"bufio"
	"strconv"
	"strings"
	"time"
)

// Column layout of a BusyBox top -b process row:
//
//	PID PPID USER STAT VSZ %VSZ CPU %CPU COMMAND
//
// The command itself may contain spaces, so it is the join of every token
// from the command column on.
const (
	topMinFields    = 9
	topMemField     = 5
	topCPUField     = 7
	topCommandField = 8
)

// Extract assembles a Snapshot from the raw output of the three remote
// commands. Parsing never fails the snapshot as a whole; each field
// degrades to absent on its own.
func Extract(now time.Time, loadRaw, countRaw, topRaw string) *Snapshot {
	return &Snapshot{
		Timestamp:    now,
		CPULoad:      ParseLoadAverage(loadRaw),
		ProcessCount: ParseProcessCount(countRaw),
		TopProcesses: ParseTopProcesses(topRaw),
	}
}

// ParseLoadAverage reads the 1-minute average from a /proc/loadavg line.
func ParseLoadAverage(raw string) OptionalFloat {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return OptionalFloat{}
	}

	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return OptionalFloat{}
	}

	return Float(load)
}

// ParseProcessCount reads the process total from a wc -l line.
func ParseProcessCount(raw string) OptionalInt {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return OptionalInt{}
	}

	return Int(count)
}

// ParseTopProcesses reads ranked process rows from the top listing
// window. Lines with fewer than topMinFields tokens are dropped, the
// survivors keep their listing order, and the result always has exactly
// TopProcessSlots entries, padded at the tail with empty slots.
func ParseTopProcesses(raw string) []ProcessSample {
	samples := make([]ProcessSample, 0, TopProcessSlots)

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		if len(samples) == TopProcessSlots {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) < topMinFields {
			continue
		}

		samples = append(samples, ProcessSample{
			Name:       String(strings.Join(fields[topCommandField:], " ")),
			CPUPercent: Float(parsePercent(fields[topCPUField])),
			MemPercent: Float(parsePercent(fields[topMemField])),
		})
	}

	for len(samples) < TopProcessSlots {
		samples = append(samples, ProcessSample{})
	}

	return samples
}

// parsePercent strips a trailing % sign; tokens that still fail to parse
// count as zero.
func parsePercent(token string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64)
	if err != nil {
		return 0
	}

	return value
}
