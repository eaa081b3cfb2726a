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
	"testing"

	"github.com/deplens/deplens/asciiscan"
)

func TestScannerSearch(t *testing.T) {
	magic := "EID:50CA347E-88EF4066:"
	cases := []struct {
		name       string
		pattern    string
		content    []byte
		wantOffset int64
		wantFound  bool
	}{
		{
			name:       "match_at_start",
			pattern:    "ABC",
			content:    []byte("ABCABC"),
			wantOffset: 0,
			wantFound:  true,
		},
		{
			name:       "match_after_binary_prefix",
			pattern:    magic,
			content:    append(bytes.Repeat([]byte{0x01}, 4101), []byte(magic+"vendor=V;")...),
			wantOffset: 4101,
			wantFound:  true,
		},
		{
			name:       "match_straddles_window_boundary",
			pattern:    magic,
			content:    append(bytes.Repeat([]byte{0xff}, 4090), []byte(magic)...),
			wantOffset: 4090,
			wantFound:  true,
		},
		{
			name:      "altered_hex_digit_not_found",
			pattern:   magic,
			content:   []byte("EID:50CA347F-88EF4066:vendor=V;product=P;version=X;"),
			wantFound: false,
		},
		{
			name:      "file_ends_inside_pattern",
			pattern:   magic,
			content:   []byte("EID:50CA347E-88EF"),
			wantFound: false,
		},
		{
			name:      "empty_file",
			pattern:   magic,
			content:   nil,
			wantFound: false,
		},
		{
			name:       "backtracking_self_overlap",
			pattern:    "participate in parachute",
			content:    []byte("participate in participate in parachute"),
			wantOffset: 15,
			wantFound:  true,
		},
		{
			name:       "second_occurrence_ignored",
			pattern:    "needle",
			content:    []byte("hay needle hay needle"),
			wantOffset: 4,
			wantFound:  true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := asciiscan.NewScanner(asciiscan.MustPattern(tc.pattern))
			r := mustForwardReader(t, tc.content)
			off, found, err := s.Search(r)
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if found != tc.wantFound {
				t.Fatalf("Search() found = %t, want %t", found, tc.wantFound)
			}
			if found && off != tc.wantOffset {
				t.Errorf("Search() offset = %d, want %d", off, tc.wantOffset)
			}
		})
	}
}

// countingReaderAt counts the underlying reads so tests can bound the number
// of buffer refills a search performs.
type countingReaderAt struct {
	r     *bytes.Reader
	reads int
}

func (c *countingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	return c.r.ReadAt(p, off)
}

func TestScannerSearchIsSinglePass(t *testing.T) {
	// 1 MiB of 0x01 without the pattern anywhere. A linear search refills the
	// 4 KiB window at most once per window plus once for the trailing EOF
	// probe.
	content := bytes.Repeat([]byte{0x01}, 1<<20)
	cr := &countingReaderAt{r: bytes.NewReader(content)}
	r, err := asciiscan.NewForwardReader(cr)
	if err != nil {
		t.Fatalf("NewForwardReader() error: %v", err)
	}
	s := asciiscan.NewScanner(asciiscan.MustPattern("EID:50CA347E-88EF4066:"))
	_, found, err := s.Search(r)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if found {
		t.Fatal("Search() found a match in pattern-free content")
	}
	if maxReads := len(content)/4096 + 2; cr.reads > maxReads {
		t.Errorf("Search() refilled %d times, want at most %d", cr.reads, maxReads)
	}
}
