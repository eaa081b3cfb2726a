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
	"strings"
)

// printable reports whether c is in the printable ASCII range, space through
// tilde. Carriage returns, linefeeds, form feeds and tabs are unprintable
// for the purposes of string extraction.
func printable(c byte) bool {
	return c >= ' ' && c <= '~'
}

// Strings rewinds r to offset and collects the maximal printable-ASCII runs
// from there to the end of the file. Runs shorter than the pattern are
// discarded; the run in progress is flushed at end of file. If a read fails
// mid-walk the runs collected so far are returned alongside the error.
func (s *Scanner) Strings(r *ForwardReader, offset int64) ([]string, error) {
	if err := r.SeekTo(offset); err != nil {
		return nil, err
	}
	var runs []string
	var b strings.Builder
	flush := func() {
		if b.Len() >= s.p.Len() {
			runs = append(runs, b.String())
		}
		b.Reset()
	}
	for {
		c, err := r.NextByte()
		if errors.Is(err, io.EOF) {
			flush()
			return runs, nil
		}
		if err != nil {
			flush()
			return runs, err
		}
		if printable(c) {
			b.WriteByte(c)
		} else {
			flush()
		}
	}
}
