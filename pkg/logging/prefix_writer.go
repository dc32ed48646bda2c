package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each complete line.
// Partial lines are held back until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.buffer.Write(p)

	for {
		pending := pw.buffer.Bytes()
		i := bytes.IndexByte(pending, '\n')
		if i < 0 {
			break
		}
		if err := pw.emit(pending[:i+1]); err != nil {
			return 0, err
		}
		pw.buffer.Next(i + 1)
	}

	return n, nil
}

// Flush writes any buffered partial line, prefixed, without a newline.
func (pw *PrefixWriter) Flush() error {
	if pw.buffer.Len() == 0 {
		return nil
	}
	err := pw.emit(pw.buffer.Bytes())
	pw.buffer.Reset()
	return err
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
