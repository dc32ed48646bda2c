package wad

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
)

// CountMacro is the symbolic lump count shared by both generated files
const CountMacro = "WADLUMPS"

// Array names in the generated sources, in emission order
const (
	ArrayFilePos  = "filepos"
	ArrayLumpSize = "lumpsize"
	ArrayNameHigh = "lumpname_high"
	ArrayNameLow  = "lumpname_low"
)

// Sources holds the two generated artifacts for one archive
type Sources struct {
	HeaderName string
	HeaderText []byte
	SourceName string
	SourceText []byte
}

// BaseName derives the artifact base name from an archive path: the
// directory, any codec suffix and the final extension are removed.
func BaseName(archivePath string) string {
	name := filepath.Base(codec.TrimExtension(archivePath))
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// GuardName returns the include guard for base, e.g. _DOOM1_LUMPS_H_.
// Characters that cannot appear in a macro name become underscores.
func GuardName(base string) string {
	upper := strings.ToUpper(base)
	var sb strings.Builder
	sb.WriteString("_")
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteString("_LUMPS_H_")
	return sb.String()
}

// Render produces the declarations header and the definitions source for
// entries. Output depends only on base and entries, so identical input
// always renders byte-for-byte identical text.
func Render(base string, entries []Entry) Sources {
	src := Sources{
		HeaderName: base + "_lumps.h",
		SourceName: base + "_lumps.cc",
	}
	src.HeaderText = renderHeader(GuardName(base), len(entries))
	src.SourceText = renderDefinitions(src.HeaderName, entries)
	return src
}

func renderHeader(guard string, count int) []byte {
	var h bytes.Buffer
	fmt.Fprintf(&h, "#ifndef %s\n", guard)
	fmt.Fprintf(&h, "#define %s\n\n", guard)
	h.WriteString("#include <stdint.h>\n\n")
	fmt.Fprintf(&h, "#define %s %d\n\n", CountMacro, count)
	fmt.Fprintf(&h, "extern int32_t %s[%s];\n", ArrayFilePos, CountMacro)
	fmt.Fprintf(&h, "extern int32_t %s[%s];\n", ArrayLumpSize, CountMacro)
	fmt.Fprintf(&h, "extern uint32_t %s[%s];\n", ArrayNameHigh, CountMacro)
	fmt.Fprintf(&h, "extern uint32_t %s[%s];\n\n", ArrayNameLow, CountMacro)
	fmt.Fprintf(&h, "#endif // %s\n", guard)
	return h.Bytes()
}

func renderDefinitions(headerName string, entries []Entry) []byte {
	var cc bytes.Buffer
	fmt.Fprintf(&cc, "#include \"%s\"\n", headerName)
	cc.WriteString("#include \"annotations.h\"\n\n")

	writeArray(&cc, "int32_t", ArrayFilePos, entries, func(e Entry) string {
		return strconv.FormatInt(int64(e.FilePos), 10)
	})
	cc.WriteString("\n")
	writeArray(&cc, "int32_t", ArrayLumpSize, entries, func(e Entry) string {
		return strconv.FormatInt(int64(e.Size), 10)
	})
	cc.WriteString("\n")
	writeArray(&cc, "uint32_t", ArrayNameHigh, entries, func(e Entry) string {
		return fmt.Sprintf("0x%08x", e.NameHigh)
	})
	cc.WriteString("\n")
	writeArray(&cc, "uint32_t", ArrayNameLow, entries, func(e Entry) string {
		return fmt.Sprintf("0x%08x", e.NameLow)
	})
	return cc.Bytes()
}

func writeArray(buf *bytes.Buffer, ctype, name string, entries []Entry, value func(Entry) string) {
	fmt.Fprintf(buf, "%s CONSTMEM %s[%s] = {\n", ctype, name, CountMacro)
	for _, e := range entries {
		fmt.Fprintf(buf, "    %s,\n", value(e))
	}
	buf.WriteString("};\n")
}

// ParseSources reads the four parallel arrays back out of a definitions
// file produced by Render.
func ParseSources(definitions []byte) ([]Entry, error) {
	text := string(definitions)

	filepos, err := parseArray(text, ArrayFilePos)
	if err != nil {
		return nil, err
	}
	sizes, err := parseArray(text, ArrayLumpSize)
	if err != nil {
		return nil, err
	}
	highs, err := parseArray(text, ArrayNameHigh)
	if err != nil {
		return nil, err
	}
	lows, err := parseArray(text, ArrayNameLow)
	if err != nil {
		return nil, err
	}

	n := len(filepos)
	if len(sizes) != n || len(highs) != n || len(lows) != n {
		return nil, fmt.Errorf("array lengths differ: %d/%d/%d/%d", n, len(sizes), len(highs), len(lows))
	}

	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			FilePos:  int32(filepos[i]),
			Size:     int32(sizes[i]),
			NameHigh: uint32(highs[i]),
			NameLow:  uint32(lows[i]),
		}
	}
	return entries, nil
}

func parseArray(text, name string) ([]int64, error) {
	marker := fmt.Sprintf(" CONSTMEM %s[%s] = {\n", name, CountMacro)
	start := strings.Index(text, marker)
	if start < 0 {
		return nil, fmt.Errorf("array %s not found", name)
	}
	body := text[start+len(marker):]
	end := strings.Index(body, "};")
	if end < 0 {
		return nil, fmt.Errorf("array %s is not terminated", name)
	}

	var values []int64
	for _, line := range strings.Split(body[:end], "\n") {
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("array %s: %w", name, err)
		}
		values = append(values, v)
	}
	return values, nil
}
