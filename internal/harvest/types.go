package harvest

import "time"

// TopProcessSlots is the fixed number of ranked process slots in every
// snapshot. The top listing window on the device is sized to match.
const TopProcessSlots = 10

// OptionalFloat is a float metric that may be absent.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// OptionalInt is an integer metric that may be absent.
type OptionalInt struct {
	Value int
	Valid bool
}

// OptionalString is a string value that may be absent.
type OptionalString struct {
	Value string
	Valid bool
}

// Float returns a present float value.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// Int returns a present integer value.
func Int(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// String returns a present string value.
func String(v string) OptionalString {
	return OptionalString{Value: v, Valid: true}
}

// ProcessSample is one ranked process from the top listing. Rows that
// parsed structurally always carry both percents; an empty rank slot has
// every field absent.
type ProcessSample struct {
	Name       OptionalString
	CPUPercent OptionalFloat
	MemPercent OptionalFloat
}

// Snapshot is one complete reading of device health. The timestamp comes
// from the local clock at collection time, never from the device.
type Snapshot struct {
	Timestamp    time.Time
	CPULoad      OptionalFloat
	ProcessCount OptionalInt
	TopProcesses []ProcessSample
}
