package codec

import (
	"fmt"
	"strings"
)

// Chain is an ordered list of codecs applied first to last.
type Chain []Codec

// ParseChain parses a pipe-separated codec list such as "gzip" or
// "bzip2|gzip". An empty string or "raw" yields an empty chain.
func ParseChain(spec string) (Chain, error) {
	spec = strings.ToLower(strings.TrimSpace(spec))
	if spec == "" || spec == "raw" {
		return nil, nil
	}

	var chain Chain
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := Lookup(part)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
	}
	return chain, nil
}

// String renders the chain in ParseChain syntax
func (ch Chain) String() string {
	if len(ch) == 0 {
		return "raw"
	}
	names := make([]string, len(ch))
	for i, c := range ch {
		names[i] = c.Name()
	}
	return strings.Join(names, "|")
}

// Extension is the concatenated file suffix of the chain, e.g. ".bz2.gz"
func (ch Chain) Extension() string {
	var sb strings.Builder
	for _, c := range ch {
		sb.WriteString(c.Extension())
	}
	return sb.String()
}

// Apply applies the chain to data
func (ch Chain) Apply(data []byte) ([]byte, error) {
	current := data

	for _, c := range ch {
		result, err := c.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", c.Name(), err)
		}
		current = result
	}

	return current, nil
}

// Reverse undoes the chain, last codec first
func (ch Chain) Reverse(data []byte) ([]byte, error) {
	current := data

	for i := len(ch) - 1; i >= 0; i-- {
		c := ch[i]
		result, err := c.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", c.Name(), err)
		}
		current = result
	}

	return current, nil
}
