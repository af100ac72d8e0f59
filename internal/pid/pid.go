// Package pid guards against two pollers appending to the same report
// workbook at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/yarninisrael/OpenInsight/internal/errors"
	"github.com/yarninisrael/OpenInsight/internal/logger"
)

const pidFile = "openinsight.pid"

var errFactory = errors.New()

func path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write claims the PID file for this process. When the file already
// names a live process the claim is refused with ErrAlreadyRunning; a
// stale file left by a dead process is replaced.
func Write() error {
	if owner, err := currentOwner(); err != nil {
		return err
	} else if owner > 0 {
		return errFactory.New(errors.ErrAlreadyRunning).WithData(owner)
	}

	if err := os.WriteFile(path(), []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err).WithData(path())
	}

	return nil
}

// currentOwner returns the PID recorded in the file if that process is
// still alive, and 0 otherwise.
func currentOwner() (int, error) {
	content, err := os.ReadFile(path())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, errFactory.Wrap(errors.ErrInternal, err).WithData(path())
	}

	owner, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrInternal, err).WithData(path())
	}

	process, err := os.FindProcess(owner)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrInternal, err)
	}

	if process.Signal(syscall.Signal(0)) == nil {
		return owner, nil
	}

	logger.Debug().Int("stale_pid", owner).Msg("Replacing PID file of a dead process")

	return 0, nil
}

// Remove deletes the PID file. A missing file is fine.
func Remove() error {
	if _, err := os.Stat(path()); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path()); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err).WithData(path())
	}

	return nil
}
