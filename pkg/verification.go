package pkg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
	"github.com/provide-io/gbadoom/go/tools/pkg/output"
	"github.com/provide-io/gbadoom/go/tools/pkg/wad"
)

// VerifyArchiveSources checks that dir already holds exactly the files
// sources would write. Missing or differing files yield ErrStaleSources.
func VerifyArchiveSources(dir string, sources wad.Sources, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	logger.Info("Verifying generated sources", "dir", dir)

	artifacts := []struct {
		name string
		data []byte
	}{
		{sources.HeaderName, sources.HeaderText},
		{sources.SourceName, sources.SourceText},
	}

	stale := []string{}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		ok, err := output.Matches(path, a.data)
		if err != nil {
			return fmt.Errorf("verifying %s: %w", path, err)
		}
		if ok {
			logger.Info("✓ Up to date", "path", path)
			continue
		}
		logger.Error("✗ Out of date", "path", path, "want_xxhash", fmt.Sprintf("%016x", output.Fingerprint(a.data)))
		stale = append(stale, a.name)
	}

	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", perrors.ErrStaleSources, strings.Join(stale, ", "))
	}
	logger.Info("✓ Generated sources verified")
	return nil
}
