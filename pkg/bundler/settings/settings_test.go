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
	"reflect"
	"strings"
	"testing"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

func baseBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()
	shell := filepath.Join(root, "src-shell")
	return NewBuilder().Dirs(root, shell).Target("linux", ArchX86_64), shell
}

func TestBuild_Defaults(t *testing.T) {
	b, shell := baseBuilder(t)
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !s.IsRelease() {
		t.Error("expected release mode by default")
	}
	if s.ProductName() != "app" || s.BinaryName() != "app" {
		t.Errorf("product/binary = %q/%q", s.ProductName(), s.BinaryName())
	}
	if s.VersionString() != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", s.VersionString())
	}
	if s.MinimumSystemVersion() != "10.11" {
		t.Errorf("min system version = %q", s.MinimumSystemVersion())
	}
	if want := filepath.Join(shell, "target", "release"); s.ProjectOutDirectory() != want {
		t.Errorf("ProjectOutDirectory() = %s, want %s", s.ProjectOutDirectory(), want)
	}
	if want := filepath.Join(shell, "target", "release", "app"); s.BinaryPath() != want {
		t.Errorf("BinaryPath() = %s, want %s", s.BinaryPath(), want)
	}
	if want := filepath.Join(shell, "target", "release", "bundle"); s.BundleDirectory() != want {
		t.Errorf("BundleDirectory() = %s, want %s", s.BundleDirectory(), want)
	}
}

func TestBuild_DebugAndVerbose(t *testing.T) {
	b, shell := baseBuilder(t)
	s, err := b.Debug().Verbose(true).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.IsRelease() || s.Mode() != ModeDebug {
		t.Errorf("mode = %s, want debug", s.Mode())
	}
	if !s.IsVerbose() {
		t.Error("expected verbose")
	}
	if want := filepath.Join(shell, "target", "debug"); s.ProjectOutDirectory() != want {
		t.Errorf("ProjectOutDirectory() = %s, want %s", s.ProjectOutDirectory(), want)
	}
}

func TestBuild_WindowsBinarySuffix(t *testing.T) {
	b, _ := baseBuilder(t)
	s, err := b.Target("windows", ArchX86_64).Package("Tool", "", "1.0.0").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if filepath.Base(s.BinaryPath()) != "tool.exe" {
		t.Errorf("BinaryPath() = %s, want tool.exe suffix", s.BinaryPath())
	}
}

func TestBuild_PackageTypes(t *testing.T) {
	tests := []struct {
		name          string
		input         []types.PackageType
		wantRequested []types.PackageType
		wantBuild     []types.PackageType
	}{
		{
			name:          "nil uses platform defaults",
			input:         nil,
			wantRequested: nil,
			wantBuild:     []types.PackageType{types.PackageTypeDeb, types.PackageTypeAppImage},
		},
		{
			name:          "empty disables bundling",
			input:         []types.PackageType{},
			wantRequested: []types.PackageType{},
			wantBuild:     []types.PackageType{},
		},
		{
			name:          "explicit list",
			input:         []types.PackageType{types.PackageTypeMsi},
			wantRequested: []types.PackageType{types.PackageTypeMsi},
			wantBuild:     []types.PackageType{types.PackageTypeMsi},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := baseBuilder(t)
			s, err := b.PackageTypes(tt.input).Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			got := s.PackageTypes()
			if (got == nil) != (tt.wantRequested == nil) || !reflect.DeepEqual(got, tt.wantRequested) {
				t.Errorf("PackageTypes() = %#v, want %#v", got, tt.wantRequested)
			}
			if build := s.TypesToBuild(); !reflect.DeepEqual(build, tt.wantBuild) {
				t.Errorf("TypesToBuild() = %v, want %v", build, tt.wantBuild)
			}
		})
	}
}

func TestBuild_Immutable(t *testing.T) {
	b, _ := baseBuilder(t)
	deps := []string{"libc6"}
	s, err := b.DebDepends(deps).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	deps[0] = "mutated"
	s.DebDepends()[0] = "changed"

	if s.DebDepends()[0] != "libc6" {
		t.Errorf("settings were mutated through a shared slice: %v", s.DebDepends())
	}
}

func TestBuild_ResolvesRelativePaths(t *testing.T) {
	b, shell := baseBuilder(t)
	abs := filepath.Join(t.TempDir(), "icon.png")
	s, err := b.Icons([]string{"icons/icon.icns", abs}).OSX("LICENSE.txt", "Dev ID", "").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	icons := s.Icons()
	if icons[0] != filepath.Join(shell, "icons", "icon.icns") {
		t.Errorf("relative icon = %s", icons[0])
	}
	if icons[1] != abs {
		t.Errorf("absolute icon = %s", icons[1])
	}
	if icns, ok := s.IconWithExt(".icns"); !ok || icns != icons[0] {
		t.Errorf("IconWithExt(.icns) = (%s, %v)", icns, ok)
	}
	if _, ok := s.IconWithExt(".ico"); ok {
		t.Error("IconWithExt(.ico) should not match")
	}
	if s.License() != filepath.Join(shell, "LICENSE.txt") {
		t.Errorf("License() = %s", s.License())
	}
	if s.MinimumSystemVersion() != "10.11" {
		t.Errorf("empty minimum system version should take the default, got %q", s.MinimumSystemVersion())
	}
}

func TestBuild_AllowlistFeatures(t *testing.T) {
	b, _ := baseBuilder(t)
	s, err := b.AllowlistFeatures(map[string]bool{"event": true, "all": false, "notification": true}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := []string{"event", "notification"}; !reflect.DeepEqual(s.Features(), want) {
		t.Errorf("Features() = %v, want %v", s.Features(), want)
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) *Builder
		code  errors.ErrorCode
	}{
		{"invalid version", func(b *Builder) *Builder { return b.Package("App", "", "one.two") }, errors.ErrCodeConfig},
		{"too many version parts", func(b *Builder) *Builder { return b.Package("App", "", "1.2.3.4") }, errors.ErrCodeConfig},
		{"blank product", func(b *Builder) *Builder { return b.Package("   ", "", "1.0.0") }, errors.ErrCodeConfig},
		{"empty product", func(b *Builder) *Builder { return b.Package("", "", "1.0.0") }, errors.ErrCodeConfig},
		{"blank binary", func(b *Builder) *Builder { return b.Package("App", "  ", "1.0.0") }, errors.ErrCodeConfig},
		{"missing shell dir", func(b *Builder) *Builder { return b.Dirs("", "") }, errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := baseBuilder(t)
			_, err := tt.build(b).Build()
			if !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestBuild_ExplicitEmptyValuesKept(t *testing.T) {
	b, _ := baseBuilder(t)
	s, err := b.OSX("", "", "").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := s.MinimumSystemVersion(); got != "" {
		t.Errorf("MinimumSystemVersion() = %q, want empty", got)
	}
}

func TestPackageBaseName_KeepsConfiguredVersion(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"1.2", "app_1.2_x64"},
		{"v1.2.0", "app_v1.2.0_x64"},
		{" 01.2.0 ", "app_01.2.0_x64"},
		{"1.2.0-beta.1", "app_1.2.0-beta.1_x64"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			b, _ := baseBuilder(t)
			s, err := b.Package("App", "", tt.version).Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := s.PackageBaseName(); got != tt.want {
				t.Errorf("PackageBaseName() = %q, want %q", got, tt.want)
			}
			if got := s.VersionString(); got != strings.TrimSpace(tt.version) {
				t.Errorf("VersionString() = %q, want %q", got, strings.TrimSpace(tt.version))
			}
		})
	}
}

func TestPackageBaseName(t *testing.T) {
	tests := []struct {
		arch string
		want string
	}{
		{ArchX86_64, "app_1.2.0_x64"},
		{ArchAarch64, "app_1.2.0_aarch64"},
		{ArchI686, "app_1.2.0_i686"},
		{"riscv64", "app_1.2.0_riscv64"},
	}

	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			b, _ := baseBuilder(t)
			s, err := b.Target("linux", tt.arch).Package("App", "", "1.2.0").Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got := s.PackageBaseName(); got != tt.want {
				t.Errorf("PackageBaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDebianArch(t *testing.T) {
	tests := map[string]string{
		ArchX86_64:  "amd64",
		ArchAarch64: "arm64",
		ArchI686:    "i386",
		ArchArmv7:   "armhf",
		"riscv64":   "riscv64",
	}
	for in, want := range tests {
		if got := DebianArch(in); got != want {
			t.Errorf("DebianArch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestArchFromGOARCH(t *testing.T) {
	tests := map[string]string{
		"amd64":   ArchX86_64,
		"arm64":   ArchAarch64,
		"386":     ArchI686,
		"arm":     ArchArmv7,
		"riscv64": "riscv64",
	}
	for in, want := range tests {
		if got := ArchFromGOARCH(in); got != want {
			t.Errorf("ArchFromGOARCH(%q) = %q, want %q", in, got, want)
		}
	}
}
