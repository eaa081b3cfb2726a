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
	"io"
)

// Scanner searches a byte stream for a fixed ASCII pattern. It carries only
// the immutable Pattern, so a single Scanner can serve concurrent scans of
// different files, each with its own ForwardReader.
type Scanner struct {
	p *Pattern
}

// NewScanner returns a Scanner for p.
func NewScanner(p *Pattern) *Scanner {
	return &Scanner{p: p}
}

// Pattern returns the pattern the scanner searches for.
func (s *Scanner) Pattern() *Pattern { return s.p }

// Search locates the first occurrence of the pattern in r using
// Knuth-Morris-Pratt search and returns its byte offset. found is false if
// the file ends without a full match. The sequence of offsets probed on r is
// non-decreasing, which is exactly the reader's contract, and the total
// number of probes is linear in the file size plus the pattern length.
func (s *Scanner) Search(r *ForwardReader) (offset int64, found bool, err error) {
	var matchOffset int64
	idx := 0
	last := s.p.Len() - 1
	for {
		b, err := r.ByteAt(matchOffset + int64(idx))
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		if s.p.bytes[idx] == b {
			if idx == last {
				return matchOffset, true, nil
			}
			idx++
			continue
		}
		if t := s.p.table[idx]; t > -1 {
			matchOffset += int64(idx - t)
			idx = t
		} else {
			idx = 0
			matchOffset++
		}
	}
}
