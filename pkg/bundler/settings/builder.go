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
	"runtime"
	"slices"
	"strings"

	"dario.cat/mergo"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/version"
)

// Values holds the raw builder inputs. A new builder starts from
// PackageDefaults and setters replace fields verbatim, so an explicit empty
// value is kept. Only the platform fields of Defaults are merged into zero
// fields during Build. Requested package types are kept outside Values so that
// default merging can never turn "none" into "platform default".
type Values struct {
	Mode    Mode
	Verbose bool

	TargetOS string
	Arch     string

	AppDir        string
	ShellDir      string
	ProjectOutDir string
	BinaryPath    string

	ProductName string
	BinaryName  string
	Version     string

	Identifier       string
	Icons            []string
	Copyright        string
	Category         string
	ShortDescription string
	LongDescription  string

	License              string
	SigningIdentity      string
	MinimumSystemVersion string
	DebDepends           []string

	Features []string
}

// Defaults returns the platform values merged into unset builder fields.
func Defaults() Values {
	return Values{
		Mode:     ModeRelease,
		TargetOS: runtime.GOOS,
		Arch:     ArchFromGOARCH(runtime.GOARCH),
	}
}

// PackageDefaults returns the package values a new builder starts with.
func PackageDefaults() Values {
	return Values{
		ProductName:          "app",
		Version:              "0.1.0",
		MinimumSystemVersion: "10.11",
	}
}

// Builder accumulates settings. It is not safe for concurrent use.
type Builder struct {
	values       Values
	packageTypes []types.PackageType
}

// NewBuilder returns a builder seeded with PackageDefaults.
func NewBuilder() *Builder {
	return &Builder{values: PackageDefaults()}
}

// Release selects the release profile. This is the default.
func (b *Builder) Release() *Builder {
	b.values.Mode = ModeRelease
	return b
}

// Debug selects the debug profile.
func (b *Builder) Debug() *Builder {
	b.values.Mode = ModeDebug
	return b
}

// Verbose enables streaming of tool output.
func (b *Builder) Verbose(on bool) *Builder {
	b.values.Verbose = on
	return b
}

// PackageTypes sets the requested types. Nil means platform defaults and an
// empty, non-nil slice disables bundling.
func (b *Builder) PackageTypes(pts []types.PackageType) *Builder {
	if pts == nil {
		b.packageTypes = nil
	} else {
		b.packageTypes = slices.Clone(pts)
	}
	return b
}

// Target overrides the target OS and vendor architecture label.
func (b *Builder) Target(goos, arch string) *Builder {
	b.values.TargetOS = goos
	b.values.Arch = arch
	return b
}

// Dirs sets the application root and the shell directory.
func (b *Builder) Dirs(appDir, shellDir string) *Builder {
	b.values.AppDir = appDir
	b.values.ShellDir = shellDir
	return b
}

// ProjectOutDir overrides <shell>/target/<mode>.
func (b *Builder) ProjectOutDir(dir string) *Builder {
	b.values.ProjectOutDir = dir
	return b
}

// BinaryPath overrides the compiled executable location.
func (b *Builder) BinaryPath(path string) *Builder {
	b.values.BinaryPath = path
	return b
}

// Package sets the product name, binary name and version.
func (b *Builder) Package(productName, binaryName, ver string) *Builder {
	b.values.ProductName = productName
	b.values.BinaryName = binaryName
	b.values.Version = ver
	return b
}

// Identifier sets the reverse DNS bundle identifier.
func (b *Builder) Identifier(id string) *Builder {
	b.values.Identifier = id
	return b
}

// Icons sets icon paths. Relative paths are resolved against the shell dir.
func (b *Builder) Icons(icons []string) *Builder {
	b.values.Icons = slices.Clone(icons)
	return b
}

// Descriptions sets copyright, category and both descriptions.
func (b *Builder) Descriptions(copyright, category, short, long string) *Builder {
	b.values.Copyright = copyright
	b.values.Category = category
	b.values.ShortDescription = short
	b.values.LongDescription = long
	return b
}

// OSX sets the EULA path, signing identity and minimum system version.
func (b *Builder) OSX(license, signingIdentity, minSystemVersion string) *Builder {
	b.values.License = license
	b.values.SigningIdentity = signingIdentity
	b.values.MinimumSystemVersion = minSystemVersion
	return b
}

// DebDepends sets the Debian package dependencies.
func (b *Builder) DebDepends(deps []string) *Builder {
	b.values.DebDepends = slices.Clone(deps)
	return b
}

// Features sets the enabled features.
func (b *Builder) Features(features []string) *Builder {
	b.values.Features = slices.Clone(features)
	return b
}

// AllowlistFeatures derives enabled features from capability flags.
func (b *Builder) AllowlistFeatures(allowlist map[string]bool) *Builder {
	features := make([]string, 0, len(allowlist))
	for name, on := range allowlist {
		if on {
			features = append(features, name)
		}
	}
	return b.Features(features)
}

// Build fills unset platform fields from Defaults, derives paths and validates.
func (b *Builder) Build() (*Settings, error) {
	v := b.values
	v.Icons = slices.Clone(v.Icons)
	v.DebDepends = slices.Clone(v.DebDepends)
	v.Features = slices.Clone(v.Features)

	if err := mergo.Merge(&v, Defaults()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to apply settings defaults", err)
	}

	if strings.TrimSpace(v.ProductName) == "" {
		return nil, errors.New(errors.ErrCodeConfig, "product name must not be empty")
	}
	if v.BinaryName == "" {
		v.BinaryName = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v.ProductName)), " ", "-")
	}
	if strings.TrimSpace(v.BinaryName) == "" {
		return nil, errors.New(errors.ErrCodeConfig, "binary name must not be empty")
	}

	v.Version = strings.TrimSpace(v.Version)
	ver, err := version.ParseVersion(v.Version)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfig,
			"invalid package version", err,
			map[string]any{"version": v.Version})
	}

	if v.ShellDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "shell directory is required")
	}
	if v.AppDir == "" {
		v.AppDir = filepath.Dir(v.ShellDir)
	}
	if v.ProjectOutDir == "" {
		v.ProjectOutDir = filepath.Join(v.ShellDir, "target", string(v.Mode))
	}
	if v.BinaryPath == "" {
		name := v.BinaryName
		if v.TargetOS == "windows" {
			name += ".exe"
		}
		v.BinaryPath = filepath.Join(v.ProjectOutDir, name)
	}

	for i, icon := range v.Icons {
		v.Icons[i] = resolve(v.ShellDir, icon)
	}
	if v.License != "" {
		v.License = resolve(v.ShellDir, v.License)
	}
	slices.Sort(v.Features)
	v.Features = slices.Compact(v.Features)

	s := &Settings{
		v:       v,
		version: ver,
	}
	if b.packageTypes != nil {
		s.packageTypes = slices.Clone(b.packageTypes)
	}
	return s, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
