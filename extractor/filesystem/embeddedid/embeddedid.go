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

// Package embeddedid analyzes object code and other opaque files for
// embedded product identifiers. Producers stamp their binaries with a fixed
// ASCII header followed by either key-value pairs or a CPE 2.3 string; the
// analyzer locates the header with a KMP search and turns every identifier
// it can parse into vendor, product and version evidence.
package embeddedid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/deplens/deplens/asciiscan"
	"github.com/deplens/deplens/extractor/filesystem"
	"github.com/deplens/deplens/inventory"
	"github.com/deplens/deplens/log"
	"github.com/deplens/deplens/plugin"
)

// Name is the unique name of this analyzer.
const Name = "binary/embeddedid"

const version = 1

const (
	magicNumber = "50CA347E-88EF4066"
	// MagicHeader is the byte-exact trigger sequence. Only files containing
	// it produce evidence.
	MagicHeader = "EID:" + magicNumber + ":"

	sourceEmbeddedID  = "Embedded ID"
	sourceEmbeddedCPE = "Embedded CPE"
)

var (
	// Key-value form: up to three name=value; pairs directly after the
	// header. Odd submatch indices hold the field names, even ones the
	// values.
	idPattern = regexp.MustCompile(
		`(?i)` + MagicHeader + `(?:(vendor|product|version)=(.*?);)(?:(vendor|product|version)=(.*?);)?(?:(vendor|product|version)=(.*?);)?`)

	// CPE 2.3 form: nine colon-separated fields, the first three being
	// vendor, product and version.
	cpePattern = regexp.MustCompile(
		`(?i)` + MagicHeader + `cpe:2\.3:a:([^:]+?):([^:]+?):([^:]+?):[^:]+?:[^:]+?:[^:]+?:[^:]+?:[^:]+?:[^:]+?`)
)

var kindByName = map[string]inventory.EvidenceKind{
	"vendor":  inventory.KindVendor,
	"product": inventory.KindProduct,
	"version": inventory.KindVersion,
}

// Extractor analyzes files for embedded product identifiers. The zero
// scanner state is immutable, so one Extractor may serve concurrent scans.
type Extractor struct {
	scanner   *asciiscan.Scanner
	collector inventory.Collector
}

// New returns an embedded ID analyzer.
func New() filesystem.Extractor {
	return &Extractor{scanner: asciiscan.NewScanner(asciiscan.MustPattern(MagicHeader))}
}

// NewWithCollector returns an embedded ID analyzer that additionally streams
// every evidence record to c as it is found.
func NewWithCollector(c inventory.Collector) filesystem.Extractor {
	return &Extractor{
		scanner:   asciiscan.NewScanner(asciiscan.MustPattern(MagicHeader)),
		collector: c,
	}
}

// Name of the analyzer.
func (e Extractor) Name() string { return Name }

// Version of the analyzer.
func (e Extractor) Version() int { return version }

// Requirements of the analyzer.
func (e Extractor) Requirements() *plugin.Capabilities { return &plugin.Capabilities{} }

// FileRequired returns true for any regular file large enough to hold the
// magic header. The analyzer reads file contents itself, so filtering by
// extension or format would only lose matches.
func (e Extractor) FileRequired(api filesystem.FileAPI) bool {
	info, err := api.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() >= int64(len(MagicHeader))
}

// Extract searches the file for the magic header and emits evidence for
// every identifier found after it. A file without the header yields an empty
// inventory and no error.
func (e Extractor) Extract(ctx context.Context, input *filesystem.ScanInput) (inventory.Inventory, error) {
	r, ok := input.Reader.(io.ReaderAt)
	if !ok {
		log.Debugf("Reader of %s does not implement ReaderAt. Fall back to read to memory.", input.Path)
		b, err := io.ReadAll(input.Reader)
		if err != nil {
			return inventory.Inventory{}, fmt.Errorf("reading file: %w", err)
		}
		r = bytes.NewReader(b)
	}
	fr, err := asciiscan.NewForwardReader(r)
	if err != nil {
		return inventory.Inventory{}, err
	}
	offset, found, err := e.scanner.Search(fr)
	if err != nil {
		// A read fault during the initial search yields no evidence.
		return inventory.Inventory{}, err
	}
	if !found {
		return inventory.Inventory{}, nil
	}
	if err := ctx.Err(); err != nil {
		return inventory.Inventory{}, err
	}
	runs, err := e.scanner.Strings(fr, offset)
	if err != nil {
		// Evidence parsed from the runs read so far is retained.
		log.Warnf("Reading embedded identifier strings from %q: %v", input.Path, err)
	}
	inv := inventory.Inventory{}
	emit := func(ev *inventory.Evidence) {
		ev.Location = input.Path
		inv.Evidence = append(inv.Evidence, ev)
		if e.collector != nil {
			e.collector.Emit(ev)
		}
	}
	identified := false
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return inv, err
		}
		// A run may satisfy both forms and emit both sets.
		id := findEmbeddedID(run, emit)
		cpe := findEmbeddedCPE(run, emit)
		identified = identified || id || cpe
	}
	if identified {
		if pkg := packageFromEvidence(inv.Evidence, input.Path); pkg != nil {
			inv.Packages = append(inv.Packages, pkg)
		}
	}
	return inv, nil
}

// findEmbeddedID parses the key-value identifier form and emits one evidence
// record per captured pair.
func findEmbeddedID(s string, emit func(*inventory.Evidence)) bool {
	m := idPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for i := 1; i+1 < len(m); i += 2 {
		name, value := m[i], m[i+1]
		if name == "" {
			continue
		}
		emit(&inventory.Evidence{
			Kind:       kindByName[strings.ToLower(name)],
			Source:     sourceEmbeddedID,
			Name:       name,
			Value:      value,
			Confidence: inventory.ConfidenceHighest,
		})
	}
	return true
}

// findEmbeddedCPE parses the CPE 2.3 identifier form and emits vendor,
// product and version records. Underscores in the captured fields stand for
// spaces on the wire and are mapped back.
func findEmbeddedCPE(s string, emit func(*inventory.Evidence)) bool {
	m := cpePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for i, kind := range []inventory.EvidenceKind{inventory.KindVendor, inventory.KindProduct, inventory.KindVersion} {
		emit(&inventory.Evidence{
			Kind:       kind,
			Source:     sourceEmbeddedCPE,
			Name:       kind.String(),
			Value:      strings.ReplaceAll(m[i+1], "_", " "),
			Confidence: inventory.ConfidenceHighest,
		})
	}
	return true
}

// packageFromEvidence promotes a complete vendor/product/version triple to a
// package record. Returns nil if any of the three aspects is missing.
func packageFromEvidence(evs []*inventory.Evidence, filePath string) *inventory.Package {
	first := map[inventory.EvidenceKind]string{}
	for _, ev := range evs {
		if _, ok := first[ev.Kind]; !ok {
			first[ev.Kind] = ev.Value
		}
	}
	if len(first) < 3 {
		return nil
	}
	return &inventory.Package{
		Name:      first[inventory.KindProduct],
		Vendor:    first[inventory.KindVendor],
		Version:   first[inventory.KindVersion],
		PURLType:  "generic",
		Locations: []string{path.Join(path.Base(path.Dir(filePath)), path.Base(filePath))},
	}
}
