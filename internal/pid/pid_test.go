package pid

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarninisrael/OpenInsight/internal/errors"
)

func pidPath() string {
	return path()
}

func TestWriteAndRemove(t *testing.T) {
	t.Cleanup(func() { _ = os.Remove(pidPath()) })

	require.NoError(t, Write())

	content, err := os.ReadFile(pidPath())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))

	require.NoError(t, Remove())
	_, err = os.Stat(pidPath())
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRefusesLiveProcess(t *testing.T) {
	t.Cleanup(func() { _ = os.Remove(pidPath()) })

	// The file holds this test's own PID, which is certainly alive.
	require.NoError(t, Write())

	err := Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestWriteReplacesStalePID(t *testing.T) {
	t.Cleanup(func() { _ = os.Remove(pidPath()) })

	// A PID far beyond the kernel's pid_max cannot belong to a live
	// process.
	require.NoError(t, os.WriteFile(pidPath(), []byte("99999999"), 0o600))

	require.NoError(t, Write())

	content, err := os.ReadFile(pidPath())
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))
}

func TestWriteRejectsCorruptPIDFile(t *testing.T) {
	t.Cleanup(func() { _ = os.Remove(pidPath()) })

	require.NoError(t, os.WriteFile(pidPath(), []byte("garbage"), 0o600))

	err := Write()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInternal))
}

func TestRemoveMissingFile(t *testing.T) {
	_ = os.Remove(pidPath())
	assert.NoError(t, Remove())
}
