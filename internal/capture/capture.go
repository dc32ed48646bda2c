// Package capture describes the on-disk layout of a screen capture session
package capture

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ScreenBuffersDir holds the raw frame dumps inside a capture directory
	ScreenBuffersDir = "screenbuffers"
	// OutputName is the default animation file name
	OutputName = "output.gif"
)

// Paths resolves the locations used for one capture directory
type Paths struct {
	Root string
	// OutputOverride replaces <root>/output.gif when set
	OutputOverride string
}

// New returns the layout rooted at dir
func New(dir string) Paths {
	return Paths{Root: dir}
}

// ScreenBuffers returns <root>/screenbuffers
func (p Paths) ScreenBuffers() string {
	return filepath.Join(p.Root, ScreenBuffersDir)
}

// Output returns where the animation is written
func (p Paths) Output() string {
	if p.OutputOverride != "" {
		return p.OutputOverride
	}
	return filepath.Join(p.Root, OutputName)
}

// Validate checks that the capture root and its frame directory exist
func (p Paths) Validate() error {
	for _, dir := range []string{p.Root, p.ScreenBuffers()} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("capture directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("capture directory: %s is not a directory", dir)
		}
	}
	return nil
}
