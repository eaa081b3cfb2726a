// Copyright 2025 The DepLens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asciiscan

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// bufferSize is the size of the read window kept in memory.
const bufferSize = 4 * 1024

var (
	// ErrNonMonotonicRead is returned when a byte is requested at an offset
	// below the previously read offset.
	ErrNonMonotonicRead = errors.New("read offset precedes previous read offset")
	// ErrInvalidSeek is returned when seeking outside the already-traversed
	// part of the file.
	ErrInvalidSeek = errors.New("seek offset outside traversed range")
)

// ForwardReader provides buffered byte-level access to a file with a
// monotone cursor: bytes are requested at non-decreasing offsets, one
// buffer-sized window is kept in memory, and the only permitted rewind is
// SeekTo an offset that has already been traversed. That rewind exists so a
// caller can re-read a matched region after search has discovered its
// offset.
//
// A ForwardReader lives for one scan of one file and is not safe for
// concurrent use.
type ForwardReader struct {
	ra     io.ReaderAt
	closer io.Closer
	buf    []byte
	// bufStart is the file offset of buf[0].
	bufStart int64
	// n is the number of valid bytes in buf.
	n int
	// last is the offset of the most recently served byte, or -1 before the
	// first read.
	last int64
}

// NewForwardReader wraps ra and pre-reads the first window. If ra also
// implements io.Closer, Close will close it.
func NewForwardReader(ra io.ReaderAt) (*ForwardReader, error) {
	r := &ForwardReader{ra: ra, buf: make([]byte, bufferSize), last: -1}
	if c, ok := ra.(io.Closer); ok {
		r.closer = c
	}
	if err := r.fill(0); err != nil {
		return nil, err
	}
	return r, nil
}

// Open opens the file at path for scanning. The returned reader owns the
// file handle; Close releases it.
func Open(path string) (*ForwardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q for scanning: %w", path, err)
	}
	r, err := NewForwardReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// fill replaces the window with one buffer-sized chunk starting at off.
func (r *ForwardReader) fill(off int64) error {
	n, err := r.ra.ReadAt(r.buf, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("refilling read buffer at offset %d: %w", off, err)
	}
	r.bufStart = off
	r.n = n
	return nil
}

// ByteAt returns the byte at off. It returns io.EOF past the end of the
// file and ErrNonMonotonicRead if off is below the previously read offset.
// When off falls outside the current window the reader refills it from the
// underlying file.
func (r *ForwardReader) ByteAt(off int64) (byte, error) {
	if off < r.last {
		return 0, fmt.Errorf("%w: offset %d, previous %d", ErrNonMonotonicRead, off, r.last)
	}
	if off >= r.bufStart+int64(r.n) {
		if err := r.fill(off); err != nil {
			return 0, err
		}
	}
	if r.n == 0 || off >= r.bufStart+int64(r.n) {
		r.last = off
		return 0, io.EOF
	}
	r.last = off
	return r.buf[off-r.bufStart], nil
}

// NextByte returns the byte following the most recently read offset.
func (r *ForwardReader) NextByte() (byte, error) {
	return r.ByteAt(r.last + 1)
}

// SeekTo repositions the cursor so that the next NextByte call returns the
// byte at off. Only offsets in [0, last+1] are valid: seeking is a rewind to
// already-traversed bytes, never a skip forward. If off precedes the current
// window the window is re-read from the underlying file.
func (r *ForwardReader) SeekTo(off int64) error {
	if off < 0 || off > r.last+1 {
		return fmt.Errorf("%w: offset %d, traversed up to %d", ErrInvalidSeek, off, r.last)
	}
	if off < r.bufStart {
		if err := r.fill(off); err != nil {
			return err
		}
	}
	r.last = off - 1
	return nil
}

// Close releases the underlying file handle if the reader owns one.
func (r *ForwardReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
