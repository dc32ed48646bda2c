package carray

import (
	"bytes"
	"fmt"
)

// BytesPerRow is the number of literals Render places on each line
const BytesPerRow = 12

// Render emits a C declaration for data that Extract(…, name) reads back
// unchanged.
func Render(name string, data []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "const unsigned char %s[%d] = {", name, len(data))
	for i, b := range data {
		if i%BytesPerRow == 0 {
			buf.WriteString("\n    ")
		}
		fmt.Fprintf(&buf, "0x%02x,", b)
		if i%BytesPerRow != BytesPerRow-1 && i != len(data)-1 {
			buf.WriteByte(' ')
		}
	}
	buf.WriteString("\n};\n")
	return buf.Bytes()
}
