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

// The deplens command scans directory trees for embedded product
// identification evidence.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/deplens/deplens/config"
	"github.com/deplens/deplens/converter"
	"github.com/deplens/deplens/extractor/filesystem"
	"github.com/deplens/deplens/extractor/filesystem/embeddedid"
	dlfs "github.com/deplens/deplens/fs"
	"github.com/deplens/deplens/inventory"
	"github.com/deplens/deplens/log"
	"github.com/deplens/deplens/plugin"
)

type scanOptions struct {
	configPath string
	skipDirs   []string
	jsonOut    bool
	verbose    bool
}

func (o *scanOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringSliceVar(&o.skipDirs, "skip-dirs", nil, "additional directory globs to skip")
	flags.BoolVar(&o.jsonOut, "json", false, "print results as JSON")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
}

// scanResult is the JSON shape of one scan run.
type scanResult struct {
	ScanID   string                `json:"scan_id"`
	Roots    []string              `json:"roots"`
	Evidence []*inventory.Evidence `json:"evidence"`
	Packages []*inventory.Package  `json:"packages"`
	PURLs    []string              `json:"purls"`
	Plugins  map[string]string     `json:"plugins"`
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan directory trees for embedded product identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runScan(cmd *cobra.Command, roots []string, opts *scanOptions) error {
	log.SetLogger(&log.DefaultLogger{Verbose: opts.verbose})
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.SkipDirGlobs = append(cfg.SkipDirGlobs, opts.skipDirs...)

	var extractors []filesystem.Extractor
	if cfg.AnalyzerEnabled(embeddedid.Name) {
		extractors = append(extractors, embeddedid.New())
	}
	if len(extractors) == 0 {
		return fmt.Errorf("all analyzers are disabled")
	}

	result := scanResult{
		ScanID:  uuid.NewString(),
		Roots:   roots,
		Plugins: make(map[string]string),
	}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(cmd.Context())
	for _, root := range roots {
		g.Go(func() error {
			inv, statuses, err := filesystem.Run(ctx, &filesystem.Config{
				Extractors:   extractors,
				ScanRoot:     dlfs.RealFSScanRoot(root),
				SkipDirGlobs: cfg.SkipDirGlobs,
				MaxInodes:    cfg.MaxInodes,
			})
			if err != nil {
				return fmt.Errorf("scanning %q: %w", root, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Evidence = append(result.Evidence, inv.Evidence...)
			result.Packages = append(result.Packages, inv.Packages...)
			mergeStatuses(result.Plugins, statuses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, p := range result.Packages {
		if purl := converter.ToPURL(p); purl != nil {
			result.PURLs = append(result.PURLs, purl.ToString())
		}
	}
	return printResult(cmd, &result, opts.jsonOut)
}

func mergeStatuses(into map[string]string, statuses []*plugin.Status) {
	for _, s := range statuses {
		// Keep the first failure per plugin across roots.
		if prev, ok := into[s.Name]; !ok || prev == "SUCCEEDED" {
			into[s.Name] = s.Status.String()
		}
	}
}

func printResult(cmd *cobra.Command, result *scanResult, jsonOut bool) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(out, "scan %s\n", result.ScanID)
	for _, ev := range result.Evidence {
		fmt.Fprintf(out, "%s: [%s] %s %s=%q (%s)\n",
			ev.Location, ev.Source, ev.Kind, ev.Name, ev.Value, ev.Confidence)
	}
	for _, purl := range result.PURLs {
		fmt.Fprintf(out, "purl: %s\n", purl)
	}
	if len(result.Evidence) == 0 {
		fmt.Fprintln(out, "no embedded identifiers found")
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "deplens",
		Short: "DepLens scans files for software identification evidence",
	}
	root.AddCommand(newScanCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
