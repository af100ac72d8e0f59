package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHeader(t *testing.T) {
	assert.Equal(t, []string{"Timestamp", "CPU Load (1-min)", "Process Count"}, HealthHeader())
}

func TestProcessHeader(t *testing.T) {
	header := ProcessHeader()

	assert.Len(t, header, 31)
	assert.Equal(t, "Timestamp", header[0])
	assert.Equal(t, "#1 Name", header[1])
	assert.Equal(t, "#1 CPU%", header[2])
	assert.Equal(t, "#1 MEM%", header[3])
	assert.Equal(t, "#10 Name", header[28])
	assert.Equal(t, "#10 MEM%", header[30])
}

func TestProcessColumns(t *testing.T) {
	assert.Equal(t, 2, ProcessNameColumn(1))
	assert.Equal(t, 3, ProcessCPUColumn(1))
	assert.Equal(t, 4, ProcessMemColumn(1))
	assert.Equal(t, 29, ProcessNameColumn(10))
	assert.Equal(t, 30, ProcessCPUColumn(10))
	assert.Equal(t, 31, ProcessMemColumn(10))

	header := ProcessHeader()
	for rank := 1; rank <= 10; rank++ {
		assert.Contains(t, header[ProcessNameColumn(rank)-1], "Name")
		assert.Contains(t, header[ProcessCPUColumn(rank)-1], "CPU%")
		assert.Contains(t, header[ProcessMemColumn(rank)-1], "MEM%")
	}
}
