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

import (
	"path/filepath"
	"slices"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/version"
)

// Mode selects the compile profile.
type Mode string

const (
	ModeRelease Mode = "release"
	ModeDebug   Mode = "debug"
)

// Settings is the validated, immutable input of the bundler pipeline.
// All fields are read-only after Build.
type Settings struct {
	v            Values
	packageTypes []types.PackageType
	version      version.Version
}

// Getter methods for read-only access

// Mode returns the compile profile.
func (s *Settings) Mode() Mode { return s.v.Mode }

// IsRelease reports whether the release profile was selected.
func (s *Settings) IsRelease() bool { return s.v.Mode == ModeRelease }

// IsVerbose reports whether tool output should be streamed.
func (s *Settings) IsVerbose() bool { return s.v.Verbose }

// PackageTypes returns the explicitly requested types.
// Nil means none were requested; an empty slice means bundling is disabled.
func (s *Settings) PackageTypes() []types.PackageType {
	if s.packageTypes == nil {
		return nil
	}
	return slices.Clone(s.packageTypes)
}

// TypesToBuild returns the requested types, or the platform defaults when
// nothing was requested.
func (s *Settings) TypesToBuild() []types.PackageType {
	if s.packageTypes == nil {
		return types.PlatformDefaults(s.v.TargetOS)
	}
	return slices.Clone(s.packageTypes)
}

// TargetOS returns the GOOS the artifacts are built for.
func (s *Settings) TargetOS() string { return s.v.TargetOS }

// ShellDirectory returns the native shell source directory.
func (s *Settings) ShellDirectory() string { return s.v.ShellDir }

// AppDirectory returns the application root.
func (s *Settings) AppDirectory() string { return s.v.AppDir }

// ProjectOutDirectory returns <shell>/target/<mode>.
func (s *Settings) ProjectOutDirectory() string { return s.v.ProjectOutDir }

// BundleDirectory returns the directory every strategy writes under.
func (s *Settings) BundleDirectory() string { return filepath.Join(s.v.ProjectOutDir, "bundle") }

// BinaryPath returns the compiled executable path.
func (s *Settings) BinaryPath() string { return s.v.BinaryPath }

// ProductName returns the human readable product name.
func (s *Settings) ProductName() string { return s.v.ProductName }

// BinaryName returns the executable name without extension.
func (s *Settings) BinaryName() string { return s.v.BinaryName }

// Version returns the parsed application version.
func (s *Settings) Version() version.Version { return s.version }

// VersionString returns the application version as configured, without
// surrounding whitespace. Version holds the parsed form.
func (s *Settings) VersionString() string { return s.v.Version }

// Arch returns the vendor style architecture label, e.g. x86_64.
func (s *Settings) Arch() string { return s.v.Arch }

// Identifier returns the reverse DNS bundle identifier.
func (s *Settings) Identifier() string { return s.v.Identifier }

// Icons returns icon paths resolved against the shell dir.
func (s *Settings) Icons() []string { return slices.Clone(s.v.Icons) }

// IconWithExt returns the first icon with the given extension.
func (s *Settings) IconWithExt(ext string) (string, bool) {
	for _, icon := range s.v.Icons {
		if filepath.Ext(icon) == ext {
			return icon, true
		}
	}
	return "", false
}

// Copyright returns the copyright string.
func (s *Settings) Copyright() string { return s.v.Copyright }

// Category returns the application category.
func (s *Settings) Category() string { return s.v.Category }

// ShortDescription returns the one line description.
func (s *Settings) ShortDescription() string { return s.v.ShortDescription }

// LongDescription returns the extended description.
func (s *Settings) LongDescription() string { return s.v.LongDescription }

// License returns the resolved EULA path, or empty.
func (s *Settings) License() string { return s.v.License }

// SigningIdentity returns the macOS code signing identity, or empty.
func (s *Settings) SigningIdentity() string { return s.v.SigningIdentity }

// MinimumSystemVersion returns the minimum macOS version.
func (s *Settings) MinimumSystemVersion() string { return s.v.MinimumSystemVersion }

// DebDepends returns the Debian package dependencies.
func (s *Settings) DebDepends() []string { return slices.Clone(s.v.DebDepends) }

// Features returns the enabled features, sorted.
func (s *Settings) Features() []string { return slices.Clone(s.v.Features) }

// PackageBaseName returns <binary>_<version>_<arch> with x86_64 shortened to x64.
// The version is the configured string, not its normalized form.
func (s *Settings) PackageBaseName() string {
	return s.v.BinaryName + "_" + s.v.Version + "_" + PackageArch(s.v.Arch)
}

// DebArch returns the Debian architecture name.
func (s *Settings) DebArch() string {
	return DebianArch(s.v.Arch)
}
