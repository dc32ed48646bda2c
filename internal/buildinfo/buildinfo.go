// Package buildinfo reports the version and build time shown by --version
package buildinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"
)

// Version of the conversion tools. Overridden at link time with
// -ldflags "-X github.com/provide-io/gbadoom/go/tools/internal/buildinfo.Version=..."
var Version = "0.1.0"

// Timestamp returns when the running binary was built: the VCS commit
// time when the toolchain recorded one, otherwise the executable's mtime.
func Timestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// Print writes the two-line version banner for command name
func Print(w io.Writer, name string) {
	fmt.Fprintf(w, "%s %s\n", name, Version)
	fmt.Fprintf(w, "Built: %s\n", Timestamp())
}

// WantsVersion reports whether args asks only for the version. It is
// checked before flag parsing so --version works without positional args.
func WantsVersion(args []string) bool {
	return len(args) > 0 && (args[0] == "--version" || args[0] == "-V")
}
