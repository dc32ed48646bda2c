package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Codec is a reversible byte transformation applied to tool inputs and outputs
type Codec interface {
	// Name returns the lower-case name used on the command line
	Name() string

	// Extension returns the file suffix, including the dot
	Extension() string

	// Apply encodes data
	Apply(input []byte) ([]byte, error)

	// Reverse decodes data produced by Apply
	Reverse(input []byte) ([]byte, error)
}

// BaseCodec provides common functionality for codecs
type BaseCodec struct {
	CodecName string
	Suffix    string
}

func (c *BaseCodec) Name() string {
	return c.CodecName
}

func (c *BaseCodec) Extension() string {
	return c.Suffix
}

// Registry maps lower-case codec names to implementations
var Registry = make(map[string]Codec)

// Register registers a codec implementation
func Register(c Codec) {
	Registry[c.Name()] = c
}

// Lookup retrieves a codec by name, case-insensitively
func Lookup(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := Registry[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown codec %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names lists registered codec names in sorted order
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPath returns the codec whose extension terminates path, or nil for
// plain files.
func ForPath(path string) Codec {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	for _, c := range Registry {
		if c.Extension() == ext {
			return c
		}
	}
	return nil
}

// ChainForPath returns the codecs named by the trailing suffixes of path,
// in the order they were applied: "x.wad.bz2.gz" yields bzip2|gzip.
func ChainForPath(path string) Chain {
	var chain Chain
	for {
		c := ForPath(path)
		if c == nil {
			break
		}
		chain = append(Chain{c}, chain...)
		path = path[:len(path)-len(c.Extension())]
	}
	return chain
}

// TrimExtension strips every registered codec suffix from path.
func TrimExtension(path string) string {
	return path[:len(path)-len(ChainForPath(path).Extension())]
}

// ReadFile reads path and undoes the codecs its suffixes name, outermost
// first.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chain := ChainForPath(path)
	if len(chain) == 0 {
		return data, nil
	}

	decoded, err := chain.Reverse(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", path, chain.String(), err)
	}
	return decoded, nil
}
