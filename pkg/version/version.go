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

// Package version parses application versions and renders them in the
// formats each installer technology accepts.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Limits imposed by Windows Installer on ProductVersion fields.
const (
	MsiMaxMajor = 255
	MsiMaxMinor = 255
	MsiMaxBuild = 65535
)

// Version is an application version of the form MAJOR[.MINOR[.PATCH]][-extra].
// Missing components are zero. Precision records how many were written.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`

	// Precision indicates how many components were written (1, 2, or 3).
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras holds the pre-release or build suffix including its
	// separator, e.g. "-beta.1" or "+build.7".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion creates a Version with all three components significant.
func NewVersion(major, minor, patch int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Patch:     patch,
		Precision: 3,
	}
}

// String returns MAJOR.MINOR.PATCH regardless of precision. Extras are not included.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Full returns String followed by any extras.
func (v Version) Full() string {
	return v.String() + v.Extras
}

// ParseVersion parses "1", "1.2", "1.2.3", "v1.2.3", "1.2.3-beta" or "1.2.3+meta".
// The "v" prefix is optional. Components must be non-negative integers.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	var v Version
	mainPart := s
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		mainPart = s[:i]
		v.Extras = s[i:]
		if len(v.Extras) == 1 {
			return Version{}, fmt.Errorf("%w: empty suffix after %q", ErrNonNumeric, v.Extras)
		}
	}

	parts := strings.Split(mainPart, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		for _, ch := range part {
			if ch < '0' || ch > '9' {
				return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
			}
		}
		num, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}

		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}

	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1 comparing the numeric components of v and other.
// Extras are ignored.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MSI renders a Windows Installer ProductVersion. Major and minor are capped
// at 255 and the build field at 65535. Extras are dropped since MSI only
// accepts numeric fields.
func (v Version) MSI() string {
	return fmt.Sprintf("%d.%d.%d",
		min(v.Major, MsiMaxMajor),
		min(v.Minor, MsiMaxMinor),
		min(v.Patch, MsiMaxBuild),
	)
}

// Debian renders a Debian upstream version. A pre-release suffix sorts
// before the release by using "~" in place of "-"; build metadata is kept
// with "+".
func (v Version) Debian() string {
	switch {
	case strings.HasPrefix(v.Extras, "-"):
		return v.String() + "~" + debSanitize(v.Extras[1:])
	case strings.HasPrefix(v.Extras, "+"):
		return v.String() + "+" + debSanitize(v.Extras[1:])
	default:
		return v.String()
	}
}

// debSanitize keeps the characters Debian allows in an upstream version.
func debSanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '.', r == '~', r == '+':
			b.WriteRune(r)
		default:
			b.WriteRune('.')
		}
	}
	return b.String()
}
