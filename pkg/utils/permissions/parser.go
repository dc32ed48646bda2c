// Package permissions parses the octal file modes accepted by --mode
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultFileMode is used for generated artifacts when --mode is not given
const DefaultFileMode os.FileMode = 0o644

// ParseMode parses an octal permission string into a file mode.
// Handles formats like "644", "0644", "0o644". Empty means DefaultFileMode;
// an explicit zero mode is rejected.
func ParseMode(s string) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFileMode, nil
	}

	digits := strings.TrimPrefix(s, "0o")
	val, err := strconv.ParseUint(digits, 8, 32)
	if err != nil {
		return DefaultFileMode, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val == 0 {
		return DefaultFileMode, fmt.Errorf("invalid permission string %q: mode 0 would leave the output unreadable", s)
	}
	if val > 0o777 {
		return DefaultFileMode, fmt.Errorf("invalid permission string %q: only permission bits are allowed", s)
	}

	return os.FileMode(val), nil
}

// FormatOctal formats a file mode's permission bits as an octal string
func FormatOctal(mode os.FileMode) string {
	return fmt.Sprintf("0%o", mode.Perm())
}
