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

// Package types defines the closed set of package types the bundler produces.
//
// # Core Type
//
// PackageType: string-based identifier doubling as the command line short name
//
//	type PackageType string
//
// | Short name | Output                         |
// |------------|--------------------------------|
// | osx        | macOS application bundle (.app)|
// | dmg        | macOS disk image (.dmg)        |
// | deb        | Debian package (.deb)          |
// | appimage   | Linux AppImage                 |
// | msi        | Windows installer (.msi)       |
//
// # Parsing Targets
//
// ParseShortNames applies the command line policy:
//
//	types.ParseShortNames([]string{"dmg", "none", "bogus"}) // [dmg], nil
//	types.ParseShortNames([]string{"none"})                 // [], nil
//	types.ParseShortNames([]string{"zip"})                  // UNSUPPORTED_FORMAT
//	types.ParseShortNames(nil)                              // nil, nil (platform defaults)
//
// # Platform Defaults
//
//	types.PlatformDefaults("darwin")  // [osx dmg]
//	types.PlatformDefaults("linux")   // [deb appimage]
//	types.PlatformDefaults("windows") // [msi]
//
// # Zero Value
//
// The zero value of PackageType is an empty string and never resolves.
package types
