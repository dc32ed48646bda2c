//go:build !windows
// +build !windows

package output

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// atomicReplace moves sourcePath over destPath. os.Rename is atomic on Unix.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Trace("Performing atomic file replacement",
		"source", sourcePath,
		"dest", destPath)

	if err := os.Rename(sourcePath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
