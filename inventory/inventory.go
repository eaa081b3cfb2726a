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

// Package inventory provides the scan result types that DepLens analyzers
// produce.
package inventory

// Package is an instance of a software package or library identified during
// a scan.
type Package struct {
	// A human-readable name representation of the package.
	Name string
	// The vendor or publisher of the package, if known.
	Vendor string
	// The version of this package.
	Version string
	// The type prefix to use when converting this package to a PURL.
	PURLType string
	// Paths of files the package was derived from.
	Locations []string
}

// Inventory stores the artifacts (packages, identification evidence)
// found during a scan.
type Inventory struct {
	Packages []*Package
	Evidence []*Evidence
}

// Append adds one or more inventories to the current one.
func (i *Inventory) Append(other ...Inventory) {
	for _, o := range other {
		i.Packages = append(i.Packages, o.Packages...)
		i.Evidence = append(i.Evidence, o.Evidence...)
	}
}

// IsEmpty returns true if there are no packages or evidence records in this
// Inventory.
func (i Inventory) IsEmpty() bool {
	return len(i.Packages) == 0 && len(i.Evidence) == 0
}
