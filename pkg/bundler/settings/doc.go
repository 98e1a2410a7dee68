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

// Package settings provides the immutable build settings consumed by every
// bundler strategy.
//
// Settings are assembled with a Builder and frozen by Build:
//
//	s, err := settings.NewBuilder().
//	    Debug().
//	    Verbose(true).
//	    Dirs(appDir, shellDir).
//	    Package("My App", "", "1.2.0").
//	    PackageTypes([]types.PackageType{types.PackageTypeDmg}).
//	    Build()
//
// Build fills unset scalars from Defaults, derives the project output
// directory (<shell>/target/<debug|release>) and the binary path, and
// validates the product name, the binary name and the version.
//
// # Naming
//
// PackageBaseName yields <binary>_<version>_<arch> where x86_64 is shortened
// to x64:
//
//	app_1.2.0_x64
//	app_1.2.0_aarch64
//
// DebArch maps vendor labels to Debian architecture names (x86_64 to amd64,
// aarch64 to arm64, i686 to i386, armv7 to armhf).
package settings
