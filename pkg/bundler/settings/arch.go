// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package settings

// Vendor style architecture labels.
const (
	ArchX86_64  = "x86_64"
	ArchAarch64 = "aarch64"
	ArchI686    = "i686"
	ArchArmv7   = "armv7"
)

var goarchLabels = map[string]string{
	"amd64": ArchX86_64,
	"arm64": ArchAarch64,
	"386":   ArchI686,
	"arm":   ArchArmv7,
}

var debianArches = map[string]string{
	ArchX86_64:  "amd64",
	ArchAarch64: "arm64",
	ArchI686:    "i386",
	ArchArmv7:   "armhf",
}

// ArchFromGOARCH maps a GOARCH value to its vendor label.
// Unknown values pass through unchanged.
func ArchFromGOARCH(goarch string) string {
	if label, ok := goarchLabels[goarch]; ok {
		return label
	}
	return goarch
}

// PackageArch returns the label used in artifact file names.
func PackageArch(arch string) string {
	if arch == ArchX86_64 {
		return "x64"
	}
	return arch
}

// DebianArch returns the Debian name of arch. Unknown values pass through.
func DebianArch(arch string) string {
	if deb, ok := debianArches[arch]; ok {
		return deb
	}
	return arch
}
