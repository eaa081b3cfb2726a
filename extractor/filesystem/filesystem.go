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

// Package filesystem provides the interface for filesystem analyzer plugins
// and the walker that drives them.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/gobwas/glob"
	"go.uber.org/multierr"

	dlfs "github.com/deplens/deplens/fs"
	"github.com/deplens/deplens/inventory"
	"github.com/deplens/deplens/log"
	"github.com/deplens/deplens/plugin"
)

// ErrMaxInodesExceeded is returned when the walk visits more inodes than the
// configured cap allows.
var ErrMaxInodesExceeded = errors.New("max inodes exceeded")

// Extractor is a filesystem analyzer plugin, used to extract identification
// evidence and package inventory from files.
type Extractor interface {
	plugin.Plugin
	// FileRequired should return true if the file described by path and file
	// info is relevant for the extractor. The plugin doesn't traverse the
	// filesystem itself but relies on the core library for that.
	FileRequired(api FileAPI) bool
	// Extract extracts inventory data relevant for the extractor from a
	// given file.
	Extract(ctx context.Context, input *ScanInput) (inventory.Inventory, error)
}

// FileAPI is the interface for accessing file information and path.
type FileAPI interface {
	// Stat returns the file info for the file.
	Stat() (fs.FileInfo, error)
	Path() string
}

// ScanInput describes one file to extract from.
type ScanInput struct {
	// FS for file access. This is rooted at Root.
	FS dlfs.FS
	// The path of the file to extract, relative to Root.
	Path string
	// The root directory where the extraction file walking started from.
	Root string
	Info fs.FileInfo
	// A reader for accessing contents of the file.
	// Note that the file is closed by the core library, not the plugin.
	Reader io.Reader
}

// Config stores the config settings for an extraction run.
type Config struct {
	Extractors []Extractor
	ScanRoot   *dlfs.ScanRoot
	// Optional: glob patterns for directories the walk should skip.
	SkipDirGlobs []string
	// Optional: limit for visited inodes. If 0, no limit is applied.
	MaxInodes int
}

// Run walks the scan root and runs the configured extractors on every
// required file. It returns the merged inventory, the per-plugin statuses
// and an error if the walk itself could not complete.
func Run(ctx context.Context, config *Config) (inventory.Inventory, []*plugin.Status, error) {
	if len(config.Extractors) == 0 {
		return inventory.Inventory{}, nil, nil
	}
	skip := make([]glob.Glob, 0, len(config.SkipDirGlobs))
	for _, pattern := range config.SkipDirGlobs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return inventory.Inventory{}, nil, fmt.Errorf("compiling skip glob %q: %w", pattern, err)
		}
		skip = append(skip, g)
	}
	wc := &walkContext{
		ctx:        ctx,
		fs:         config.ScanRoot.FS,
		root:       config.ScanRoot.Path,
		extractors: config.Extractors,
		skipDirs:   skip,
		maxInodes:  config.MaxInodes,
		errors:     make(map[string]error),
	}
	walkErr := fs.WalkDir(wc.fs, ".", wc.handleFile)
	statuses := make([]*plugin.Status, 0, len(config.Extractors))
	for _, ex := range config.Extractors {
		statuses = append(statuses, plugin.StatusFromErr(ex, true, wc.errors[ex.Name()]))
	}
	return wc.inventory, statuses, walkErr
}

type walkContext struct {
	ctx        context.Context
	fs         dlfs.FS
	root       string
	extractors []Extractor
	skipDirs   []glob.Glob
	maxInodes  int
	inodes     int

	inventory inventory.Inventory
	// Aggregated per-plugin extraction errors.
	errors map[string]error
}

func (wc *walkContext) handleFile(p string, d fs.DirEntry, err error) error {
	if err != nil {
		log.Warnf("Walking %q: %v", p, err)
		return nil
	}
	if err := wc.ctx.Err(); err != nil {
		return err
	}
	if d.IsDir() {
		if wc.shouldSkipDir(p) {
			return fs.SkipDir
		}
		return nil
	}
	wc.inodes++
	if wc.maxInodes > 0 && wc.inodes > wc.maxInodes {
		return fmt.Errorf("%w: %d", ErrMaxInodesExceeded, wc.maxInodes)
	}
	api := &walkedFile{fs: wc.fs, path: p, entry: d}
	for _, ex := range wc.extractors {
		if !ex.FileRequired(api) {
			continue
		}
		if err := wc.runExtractor(ex, p); err != nil {
			log.Errorf("%s: extracting from %q: %v", ex.Name(), p, err)
			wc.errors[ex.Name()] = multierr.Append(wc.errors[ex.Name()], fmt.Errorf("%s: %w", p, err))
		}
	}
	return nil
}

func (wc *walkContext) shouldSkipDir(p string) bool {
	base := path.Base(p)
	for _, g := range wc.skipDirs {
		if g.Match(p) || g.Match(base) {
			return true
		}
	}
	return false
}

func (wc *walkContext) runExtractor(ex Extractor, p string) error {
	f, err := wc.fs.Open(p)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stating file: %w", err)
	}
	inv, err := ex.Extract(wc.ctx, &ScanInput{
		FS:     wc.fs,
		Path:   p,
		Root:   wc.root,
		Info:   info,
		Reader: f,
	})
	wc.inventory.Append(inv)
	return err
}

// walkedFile implements FileAPI for a file visited during the walk, stating
// it lazily.
type walkedFile struct {
	fs    dlfs.FS
	path  string
	entry fs.DirEntry
}

func (f *walkedFile) Path() string { return f.path }

func (f *walkedFile) Stat() (fs.FileInfo, error) { return f.entry.Info() }
