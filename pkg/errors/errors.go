package errors

import "errors"

var (
	// Usage errors 🧭
	ErrUsage = errors.New("❌ wrong number of arguments")

	// Source array errors 📝
	ErrArrayNotFound   = errors.New("❌ array not found")
	ErrOutOfRangeValue = errors.New("❌ value out of byte range")
	ErrInvalidLiteral  = errors.New("❌ invalid integer literal")

	// Archive errors 📦
	ErrTruncatedHeader         = errors.New("❌ invalid WAD file: header too short")
	ErrTruncatedDirectoryEntry = errors.New("❌ invalid WAD file: lump directory too short")
	ErrStaleSources            = errors.New("❌ generated sources are out of date")

	// Frame errors 🎞️
	ErrTruncatedFrame = errors.New("❌ truncated frame")
	ErrEmptyFrameSet  = errors.New("❌ no raw frames found")
)
