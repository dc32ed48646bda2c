// Package output writes generated artifacts all-or-nothing: content is
// staged in a temporary file beside the destination and moved into place
// only once fully written.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gbadoom/go/tools/pkg/utils/permissions"
)

// Result describes what WriteFile did with one artifact
type Result struct {
	Path        string
	Size        int
	Fingerprint uint64
	Unchanged   bool
}

// Fingerprint returns the xxhash64 digest used to compare artifacts
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FileFingerprint hashes the file at path. A missing file reports ok=false.
func FileFingerprint(path string) (uint64, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return Fingerprint(data), true, nil
}

// Matches reports whether the file at path already holds data.
func Matches(path string, data []byte) (bool, error) {
	existing, ok, err := FileFingerprint(path)
	if err != nil || !ok {
		return false, err
	}
	return existing == Fingerprint(data), nil
}

// WriteFile atomically replaces path with data. When the destination
// already holds identical content it is left untouched so its
// modification time does not change.
func WriteFile(path string, data []byte, mode os.FileMode, logger hclog.Logger) (Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	res := Result{Path: path, Size: len(data), Fingerprint: Fingerprint(data)}

	same, err := Matches(path, data)
	if err != nil {
		return res, fmt.Errorf("reading existing %s: %w", path, err)
	}
	if same {
		logger.Debug("Output unchanged, skipping write", "path", path, "xxhash", fmt.Sprintf("%016x", res.Fingerprint))
		res.Unchanged = true
		return res, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return res, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()
	logger.Trace("Staging output", "temp_path", tempPath)

	// Ensure temp file cleanup on error
	committed := false
	defer func() {
		if !committed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return res, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return res, fmt.Errorf("failed to set mode on temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return res, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := atomicReplace(tempPath, path, logger); err != nil {
		return res, err
	}
	committed = true

	logger.Debug("Wrote output",
		"path", path,
		"size", len(data),
		"mode", permissions.FormatOctal(mode),
		"xxhash", fmt.Sprintf("%016x", res.Fingerprint))
	return res, nil
}

// File is one artifact of a multi-file write
type File struct {
	Path string
	Data []byte
}

// WriteAll writes every file, stopping at the first failure. All content
// must already be rendered in memory so a failure while producing it
// never leaves a partial set behind.
func WriteAll(files []File, mode os.FileMode, logger hclog.Logger) ([]Result, error) {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		res, err := WriteFile(f.Path, f.Data, mode, logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
