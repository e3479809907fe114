package utils

import (
	"errors"
	"io"
)

// ErrReadLimit is returned by LimitedReader when the source holds more bytes than allowed
var ErrReadLimit = errors.New("read limit exceeded")

// LimitedReader implements io.Reader, but fails once more than limit bytes are read from src.
// Unlike io.LimitedReader it does not hide the remaining input behind a clean EOF.
type LimitedReader struct {
	src   io.Reader
	n     int
	limit int
}

// NewLimitedReader wraps an io.Reader to LimitedReader, limit <= 0 means unlimited
func NewLimitedReader(src io.Reader, limit int) *LimitedReader {
	return &LimitedReader{
		src:   src,
		limit: limit,
	}
}

// Read reads up to len(p) bytes into p. It returns ErrReadLimit when src yields more than limit bytes
func (r *LimitedReader) Read(p []byte) (n int, err error) {
	if r.src == nil {
		return 0, errors.New("no data source")
	}
	if r.limit > 0 {
		if r.n > r.limit {
			return 0, ErrReadLimit
		}
		// read one byte past the limit so an exactly-sized source still reaches EOF
		if remain := r.limit - r.n + 1; len(p) > remain {
			p = p[:remain]
		}
	}
	n, err = r.src.Read(p)
	r.n += n
	if r.limit > 0 && r.n > r.limit {
		return n - (r.n - r.limit), ErrReadLimit
	}
	return n, err
}

// Count returns the number of bytes read so far
func (r *LimitedReader) Count() int {
	return r.n
}

// Limit returns the configured limit
func (r *LimitedReader) Limit() int {
	return r.limit
}
