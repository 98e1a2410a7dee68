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

package oci

import (
	"testing"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantReg  string
		wantRepo string
		wantTag  string
		wantErr  bool
	}{
		{
			name:     "ghcr with tag",
			input:    "oci://ghcr.io/example/app:v1.0.0",
			wantReg:  "ghcr.io",
			wantRepo: "example/app",
			wantTag:  "v1.0.0",
		},
		{
			name:     "local registry with port",
			input:    "oci://localhost:5000/app:latest",
			wantReg:  "localhost:5000",
			wantRepo: "app",
			wantTag:  "latest",
		},
		{
			name:     "no tag",
			input:    "oci://ghcr.io/example/app",
			wantReg:  "ghcr.io",
			wantRepo: "example/app",
		},
		{
			name:     "nested repository",
			input:    "oci://registry.example.com/a/b/c:1.2.0",
			wantReg:  "registry.example.com",
			wantRepo: "a/b/c",
			wantTag:  "1.2.0",
		},
		{
			name:    "missing scheme",
			input:   "ghcr.io/example/app:v1",
			wantErr: true,
		},
		{
			name:    "uppercase repository",
			input:   "oci://ghcr.io/Example/App:v1",
			wantErr: true,
		},
		{
			name:    "digest",
			input:   "oci://ghcr.io/example/app@sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "oci://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseReference(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseReference(%q) expected error", tt.input)
				}
				if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
					t.Errorf("expected INVALID_REQUEST, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReference(%q) error = %v", tt.input, err)
			}
			if ref.Registry != tt.wantReg {
				t.Errorf("Registry = %q, want %q", ref.Registry, tt.wantReg)
			}
			if ref.Repository != tt.wantRepo {
				t.Errorf("Repository = %q, want %q", ref.Repository, tt.wantRepo)
			}
			if ref.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", ref.Tag, tt.wantTag)
			}
		})
	}
}

func TestReference_String(t *testing.T) {
	ref := &Reference{Registry: "ghcr.io", Repository: "example/app", Tag: "v1"}
	if got := ref.String(); got != "oci://ghcr.io/example/app:v1" {
		t.Errorf("String() = %q", got)
	}
	if got := ref.ImageReference(); got != "ghcr.io/example/app:v1" {
		t.Errorf("ImageReference() = %q", got)
	}

	untagged := &Reference{Registry: "ghcr.io", Repository: "example/app"}
	if got := untagged.ImageReference(); got != "ghcr.io/example/app" {
		t.Errorf("ImageReference() = %q", got)
	}
}

func TestReference_WithTag(t *testing.T) {
	orig := &Reference{Registry: "ghcr.io", Repository: "example/app"}
	tagged := orig.WithTag("2.0.0")

	if tagged.Tag != "2.0.0" {
		t.Errorf("Tag = %q, want 2.0.0", tagged.Tag)
	}
	if orig.Tag != "" {
		t.Error("WithTag modified the original reference")
	}
}

func TestDefaultTag(t *testing.T) {
	tests := map[string]string{
		"1.2.0":         "1.2.0",
		"1.2.0-rc.1":    "1.2.0-rc.1",
		"1.2.0+build.7": "1.2.0_build.7",
		"":              "latest",
	}
	for in, want := range tests {
		if got := DefaultTag(in); got != want {
			t.Errorf("DefaultTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsReference(t *testing.T) {
	if !IsReference("oci://ghcr.io/a/b") {
		t.Error("expected oci reference")
	}
	if IsReference("./bundle") {
		t.Error("local path is not a reference")
	}
}
