package wad

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/gbadoom/go/tools/pkg/codec"
	perrors "github.com/provide-io/gbadoom/go/tools/pkg/errors"
)

// Reader reads the lump directory of a WAD archive
type Reader struct {
	archivePath string
	data        io.ReaderAt
	header      *Header
	entries     []Entry
	logger      hclog.Logger
}

// NewReaderWithLogger creates a new WAD reader with a custom logger
func NewReaderWithLogger(archivePath string, logger hclog.Logger) (*Reader, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{
		archivePath: archivePath,
		logger:      logger,
	}, nil
}

// NewReaderFrom wraps an archive that is already in memory
func NewReaderFrom(data []byte, logger hclog.Logger) *Reader {
	r, _ := NewReaderWithLogger("", logger)
	r.data = bytes.NewReader(data)
	return r
}

// Open loads the archive into memory, decompressing it if its extension
// names a registered codec.
func (r *Reader) Open() error {
	if r.data != nil {
		return nil
	}

	data, err := codec.ReadFile(r.archivePath)
	if err != nil {
		return err
	}

	r.logger.Debug("Loaded archive", "path", r.archivePath, "size", len(data))
	r.data = bytes.NewReader(data)
	return nil
}

// ReadHeader reads the 12-byte archive header
func (r *Reader) ReadHeader() (*Header, error) {
	if r.header != nil {
		return r.header, nil
	}

	if err := r.Open(); err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize)
	n, err := r.data.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	header := &Header{}
	if err := header.Unpack(buf[:n]); err != nil {
		return nil, err
	}

	r.logger.Debug("Read header",
		"tag", fmt.Sprintf("%q", header.Tag()),
		"numlumps", header.NumLumps,
		"infotableofs", header.InfoTableOfs)

	r.header = header
	return header, nil
}

// ReadDirectory reads exactly NumLumps entries starting at InfoTableOfs.
// Any short entry fails the whole read.
func (r *Reader) ReadDirectory() ([]Entry, error) {
	if r.entries != nil {
		return r.entries, nil
	}

	header, err := r.ReadHeader()
	if err != nil {
		return nil, err
	}

	if header.NumLumps < 0 {
		return nil, fmt.Errorf("%w: negative lump count %d", perrors.ErrTruncatedDirectoryEntry, header.NumLumps)
	}
	if header.InfoTableOfs < 0 {
		return nil, fmt.Errorf("%w: negative directory offset %d", perrors.ErrTruncatedDirectoryEntry, header.InfoTableOfs)
	}

	// Grow as entries are read rather than trusting NumLumps for the
	// allocation; a corrupt count fails on the first short entry.
	entries := make([]Entry, 0, min(int(header.NumLumps), 4096))
	buf := make([]byte, EntrySize)
	offset := int64(header.InfoTableOfs)

	for i := 0; i < int(header.NumLumps); i++ {
		n, err := r.data.ReadAt(buf, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		var e Entry
		if err := e.Unpack(buf[:n]); err != nil {
			return nil, fmt.Errorf("entry %d at offset %d: %w", i, offset, err)
		}

		r.logger.Trace("Read lump", "index", i, "name", e.Name(), "filepos", e.FilePos, "size", e.Size)
		entries = append(entries, e)
		offset += EntrySize
	}

	r.logger.Debug("Read directory", "entries", len(entries))
	r.entries = entries
	return entries, nil
}
