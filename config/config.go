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

// Package config holds the user-facing scan configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config are the user-configurable settings of a scan.
type Config struct {
	// Analyzers toggles individual analyzer plugins by name. Analyzers not
	// listed are enabled.
	Analyzers map[string]bool `yaml:"analyzers"`
	// SkipDirGlobs are glob patterns for directories the scan should skip.
	SkipDirGlobs []string `yaml:"skip-dir-globs"`
	// MaxInodes caps the number of inodes one scan may visit. 0 means no cap.
	MaxInodes int `yaml:"max-inodes"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		SkipDirGlobs: []string{".git"},
	}
}

// Load reads a YAML config from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return c, nil
}

// AnalyzerEnabled reports whether the named analyzer should run. Analyzers
// are opt-out: only an explicit "false" entry disables one.
func (c *Config) AnalyzerEnabled(name string) bool {
	enabled, ok := c.Analyzers[name]
	return !ok || enabled
}
