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

package asciiscan_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/deplens/deplens/asciiscan"
)

// repeatedAlphabet returns n bytes cycling through 'a'..'z' so every offset
// has a predictable value.
func repeatedAlphabet(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return b
}

func mustForwardReader(t *testing.T, content []byte) *asciiscan.ForwardReader {
	t.Helper()
	r, err := asciiscan.NewForwardReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("NewForwardReader() error: %v", err)
	}
	return r
}

func TestForwardReaderSequential(t *testing.T) {
	content := []byte("hello")
	r := mustForwardReader(t, content)
	for i, want := range content {
		got, err := r.NextByte()
		if err != nil {
			t.Fatalf("NextByte() #%d error: %v", i, err)
		}
		if got != want {
			t.Errorf("NextByte() #%d = %q, want %q", i, got, want)
		}
	}
	if _, err := r.NextByte(); !errors.Is(err, io.EOF) {
		t.Errorf("NextByte() past end error: %v, want io.EOF", err)
	}
}

func TestForwardReaderEmptyFile(t *testing.T) {
	r := mustForwardReader(t, nil)
	if _, err := r.NextByte(); !errors.Is(err, io.EOF) {
		t.Errorf("NextByte() on empty file error: %v, want io.EOF", err)
	}
}

func TestForwardReaderRefillAcrossWindow(t *testing.T) {
	// Three full windows plus change.
	content := repeatedAlphabet(3*4096 + 100)
	r := mustForwardReader(t, content)
	for _, off := range []int64{0, 4095, 4096, 8191, 8192, 12387} {
		got, err := r.ByteAt(off)
		if err != nil {
			t.Fatalf("ByteAt(%d) error: %v", off, err)
		}
		if want := content[off]; got != want {
			t.Errorf("ByteAt(%d) = %q, want %q", off, got, want)
		}
	}
	if _, err := r.ByteAt(int64(len(content))); !errors.Is(err, io.EOF) {
		t.Errorf("ByteAt(len) error: %v, want io.EOF", err)
	}
}

func TestForwardReaderRepeatedOffset(t *testing.T) {
	r := mustForwardReader(t, []byte("abc"))
	for range 3 {
		got, err := r.ByteAt(1)
		if err != nil {
			t.Fatalf("ByteAt(1) error: %v", err)
		}
		if got != 'b' {
			t.Errorf("ByteAt(1) = %q, want 'b'", got)
		}
	}
}

func TestForwardReaderNonMonotonicRead(t *testing.T) {
	r := mustForwardReader(t, []byte("abcdef"))
	if _, err := r.ByteAt(4); err != nil {
		t.Fatalf("ByteAt(4) error: %v", err)
	}
	if _, err := r.ByteAt(2); !errors.Is(err, asciiscan.ErrNonMonotonicRead) {
		t.Errorf("ByteAt(2) after ByteAt(4) error: %v, want ErrNonMonotonicRead", err)
	}
}

func TestForwardReaderSeekWithinWindow(t *testing.T) {
	content := []byte("0123456789")
	r := mustForwardReader(t, content)
	if _, err := r.ByteAt(7); err != nil {
		t.Fatalf("ByteAt(7) error: %v", err)
	}
	if err := r.SeekTo(3); err != nil {
		t.Fatalf("SeekTo(3) error: %v", err)
	}
	got, err := r.NextByte()
	if err != nil {
		t.Fatalf("NextByte() after seek error: %v", err)
	}
	if got != '3' {
		t.Errorf("NextByte() after SeekTo(3) = %q, want '3'", got)
	}
}

func TestForwardReaderSeekBelowWindow(t *testing.T) {
	// Traverse into the second window, then rewind to a byte only present in
	// the first. The reader must re-read the window from the file.
	content := repeatedAlphabet(2 * 4096)
	r := mustForwardReader(t, content)
	if _, err := r.ByteAt(5000); err != nil {
		t.Fatalf("ByteAt(5000) error: %v", err)
	}
	if err := r.SeekTo(10); err != nil {
		t.Fatalf("SeekTo(10) error: %v", err)
	}
	got, err := r.NextByte()
	if err != nil {
		t.Fatalf("NextByte() after rewind error: %v", err)
	}
	if want := content[10]; got != want {
		t.Errorf("NextByte() after SeekTo(10) = %q, want %q", got, want)
	}
}

func TestForwardReaderSeekInvalid(t *testing.T) {
	r := mustForwardReader(t, []byte("abcdef"))
	if _, err := r.ByteAt(2); err != nil {
		t.Fatalf("ByteAt(2) error: %v", err)
	}
	cases := []struct {
		name string
		off  int64
	}{
		{name: "negative", off: -1},
		{name: "beyond_traversed", off: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := r.SeekTo(tc.off); !errors.Is(err, asciiscan.ErrInvalidSeek) {
				t.Errorf("SeekTo(%d) error: %v, want ErrInvalidSeek", tc.off, err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scanme.bin")
	if err := os.WriteFile(p, []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r, err := asciiscan.Open(p)
	if err != nil {
		t.Fatalf("Open(%q) error: %v", p, err)
	}
	defer r.Close()
	got, err := r.ByteAt(0)
	if err != nil {
		t.Fatalf("ByteAt(0) error: %v", err)
	}
	if got != 'c' {
		t.Errorf("ByteAt(0) = %q, want 'c'", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := asciiscan.Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Open() of missing file returned nil error")
	}
}

// failingReaderAt fails every read with a fixed error.
type failingReaderAt struct {
	err error
}

func (f failingReaderAt) ReadAt([]byte, int64) (int, error) {
	return 0, f.err
}

func TestForwardReaderReadError(t *testing.T) {
	wantErr := errors.New("disk on fire")
	if _, err := asciiscan.NewForwardReader(failingReaderAt{err: wantErr}); !errors.Is(err, wantErr) {
		t.Errorf("NewForwardReader() error: %v, want %v", err, wantErr)
	}
}
