//go:build windows
// +build windows

package output

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// atomicReplace moves sourcePath over destPath with MoveFileEx, retrying
// while another process (an editor, a virus scanner) holds the file open.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Trace("Performing atomic file replacement",
		"source", sourcePath,
		"dest", destPath)

	fromPtr, err := windows.UTF16PtrFromString(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to convert source path to UTF-16: %w", err)
	}

	toPtr, err := windows.UTF16PtrFromString(destPath)
	if err != nil {
		return fmt.Errorf("failed to convert dest path to UTF-16: %w", err)
	}

	var flags uint32 = windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH

	maxAttempts := 3
	delay := 50 * time.Millisecond

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = windows.MoveFileEx(fromPtr, toPtr, flags)
		if err == nil {
			if attempt > 1 {
				logger.Debug("Replaced file after retry", "attempt", attempt)
			}
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		logger.Debug("Retrying atomic file replacement (Windows file lock)",
			"attempt", attempt,
			"next_delay_ms", delay.Milliseconds(),
			"error", err)

		time.Sleep(delay)
		delay *= 2
	}

	return fmt.Errorf("failed after %d attempts (Windows file lock): %w", maxAttempts, err)
}
