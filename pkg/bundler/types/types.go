package types

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// PackageType identifies an OS-native distributable format.
type PackageType string

// Supported package types.
const (
	PackageTypeOsxBundle PackageType = "osx"
	PackageTypeDmg       PackageType = "dmg"
	PackageTypeDeb       PackageType = "deb"
	PackageTypeAppImage  PackageType = "appimage"
	PackageTypeMsi       PackageType = "msi"
)

// NoneShortName is the sentinel that stops target parsing.
const NoneShortName = "none"

var descriptions = map[PackageType]string{
	PackageTypeOsxBundle: "macOS application bundle (.app)",
	PackageTypeDmg:       "macOS disk image (.dmg)",
	PackageTypeDeb:       "Debian package (.deb)",
	PackageTypeAppImage:  "Linux AppImage (.AppImage)",
	PackageTypeMsi:       "Windows installer (.msi)",
}

// String returns the short name of the package type.
func (pt PackageType) String() string {
	return string(pt)
}

// ShortName returns the command line name of the package type.
func (pt PackageType) ShortName() string {
	return string(pt)
}

// Description returns a human readable description.
func (pt PackageType) Description() string {
	return descriptions[pt]
}

// FromShortName looks up a package type by its short name.
func FromShortName(name string) (PackageType, bool) {
	pt := PackageType(name)
	if _, ok := descriptions[pt]; !ok {
		return "", false
	}
	return pt, true
}

// ParseShortNames converts command line target names into package types.
//
// Names are processed in order. "none" stops processing and any later
// names, valid or not, are ignored. An unknown name before that fails with
// ErrCodeUnsupportedFormat. Duplicates keep their first position.
//
// A nil result means no names were given and platform defaults apply. An
// empty, non-nil result means bundling was explicitly disabled.
func ParseShortNames(names []string) ([]PackageType, error) {
	if len(names) == 0 {
		return nil, nil
	}

	out := make([]PackageType, 0, len(names))
	seen := make(map[PackageType]bool, len(names))
	for _, name := range names {
		if name == NoneShortName {
			break
		}
		pt, ok := FromShortName(name)
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeUnsupportedFormat,
				fmt.Sprintf("Unsupported bundle format: %s", name),
				map[string]any{"format": name, "supported": SupportedTypesAsStrings()})
		}
		if seen[pt] {
			continue
		}
		seen[pt] = true
		out = append(out, pt)
	}
	return out, nil
}

// All returns every supported package type in a stable order.
func All() []PackageType {
	return []PackageType{
		PackageTypeOsxBundle,
		PackageTypeDmg,
		PackageTypeDeb,
		PackageTypeAppImage,
		PackageTypeMsi,
	}
}

// PlatformDefaults returns the package types built when none are requested.
func PlatformDefaults(goos string) []PackageType {
	switch goos {
	case "darwin":
		return []PackageType{PackageTypeOsxBundle, PackageTypeDmg}
	case "linux":
		return []PackageType{PackageTypeDeb, PackageTypeAppImage}
	case "windows":
		return []PackageType{PackageTypeMsi}
	default:
		return []PackageType{}
	}
}

// SupportedTypesAsStrings returns all short names sorted alphabetically.
func SupportedTypesAsStrings() []string {
	all := All()
	result := make([]string, len(all))
	for i, t := range all {
		result[i] = string(t)
	}
	sort.Strings(result)
	return result
}
