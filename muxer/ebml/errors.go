package ebml

import "errors"

var (
	// ErrValueTooLarge is returned when a value does not fit the requested width.
	ErrValueTooLarge = errors.New("ebml: value too large for size")
	// ErrSizeMismatch means an element wrote a different number of bytes than it announced.
	// The output is corrupt once this is returned.
	ErrSizeMismatch = errors.New("ebml: element size mismatch")
	// ErrNoVoidFit is returned when no Void element has exactly the requested size.
	ErrNoVoidFit = errors.New("ebml: no void element of requested size")
	// ErrNotSeekable is returned by SetPosition on streaming writers.
	ErrNotSeekable = errors.New("ebml: writer is not seekable")
)
