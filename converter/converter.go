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

// Package converter converts DepLens scan results to external formats.
package converter

import (
	"github.com/package-url/packageurl-go"

	"github.com/deplens/deplens/inventory"
)

// ToPURL converts a package identified during a scan into a package URL.
// Returns nil if the package is missing a name or version.
func ToPURL(p *inventory.Package) *packageurl.PackageURL {
	if p.Name == "" || p.Version == "" {
		return nil
	}
	t := p.PURLType
	if t == "" {
		t = packageurl.TypeGeneric
	}
	return packageurl.NewPackageURL(t, p.Vendor, p.Name, p.Version, nil, "")
}
