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

package config

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// Config is the fully resolved project configuration.
type Config struct {
	App     AppConfig      `json:"app" yaml:"app"`
	Build   BuildConfig    `json:"build" yaml:"build"`
	Package PackageConfig  `json:"package" yaml:"package"`
	Plugins map[string]any `json:"plugins,omitempty" yaml:"plugins,omitempty"`
}

// AppConfig is the application section.
type AppConfig struct {
	EmbeddedServer EmbeddedServerConfig `json:"embeddedServer" yaml:"embeddedServer"`
	CLI            *CliConfig           `json:"cli,omitempty" yaml:"cli,omitempty"`
	Bundle         BundleConfig         `json:"bundle" yaml:"bundle"`
	Allowlist      map[string]bool      `json:"allowlist,omitempty" yaml:"allowlist,omitempty"`
}

// EmbeddedServerConfig configures the local asset server of the shell.
type EmbeddedServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port Port   `json:"port" yaml:"port"`
}

// BundleConfig drives the bundler pipeline.
type BundleConfig struct {
	Active           bool      `json:"active" yaml:"active"`
	Identifier       string    `json:"identifier" yaml:"identifier"`
	Icon             []string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Copyright        string    `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	Category         string    `json:"category,omitempty" yaml:"category,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty" yaml:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	OSX              OSXConfig `json:"osx" yaml:"osx"`
	Deb              DebConfig `json:"deb" yaml:"deb"`
}

// OSXConfig holds macOS specific bundle settings.
type OSXConfig struct {
	// License is the path of an EULA attached to the disk image.
	License              string `json:"license,omitempty" yaml:"license,omitempty"`
	SigningIdentity      string `json:"signingIdentity,omitempty" yaml:"signingIdentity,omitempty"`
	MinimumSystemVersion string `json:"minimumSystemVersion" yaml:"minimumSystemVersion"`
}

// DebConfig holds Debian specific bundle settings.
type DebConfig struct {
	Depends []string `json:"depends,omitempty" yaml:"depends,omitempty"`
}

// BuildConfig configures the front-end build and the shell compile step.
type BuildConfig struct {
	DevPath            string `json:"devPath" yaml:"devPath"`
	DistDir            string `json:"distDir" yaml:"distDir"`
	BeforeDevCommand   string `json:"beforeDevCommand,omitempty" yaml:"beforeDevCommand,omitempty"`
	BeforeBuildCommand string `json:"beforeBuildCommand,omitempty" yaml:"beforeBuildCommand,omitempty"`
	WithGlobalBridge   bool   `json:"withGlobalBridge" yaml:"withGlobalBridge"`
}

// PackageConfig names the produced application.
type PackageConfig struct {
	ProductName string `json:"productName" yaml:"productName"`
	Version     string `json:"version" yaml:"version"`
	BinaryName  string `json:"binaryName,omitempty" yaml:"binaryName,omitempty"`
}

// CliConfig describes the command line exposed by the packaged application.
// Subcommands nest the same schema.
type CliConfig struct {
	Description     string                `json:"description,omitempty" yaml:"description,omitempty"`
	LongDescription string                `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	BeforeHelp      string                `json:"beforeHelp,omitempty" yaml:"beforeHelp,omitempty"`
	AfterHelp       string                `json:"afterHelp,omitempty" yaml:"afterHelp,omitempty"`
	Args            []CliArg              `json:"args,omitempty" yaml:"args,omitempty"`
	Subcommands     map[string]*CliConfig `json:"subcommands,omitempty" yaml:"subcommands,omitempty"`
}

// CliArg describes a single argument of the packaged application's command line.
type CliArg struct {
	Short           string `json:"short,omitempty" yaml:"short,omitempty"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	LongDescription string `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`

	TakesValue          bool     `json:"takesValue,omitempty" yaml:"takesValue,omitempty"`
	Multiple            bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	MultipleOccurrences bool     `json:"multipleOccurrences,omitempty" yaml:"multipleOccurrences,omitempty"`
	NumberOfValues      *uint64  `json:"numberOfValues,omitempty" yaml:"numberOfValues,omitempty"`
	PossibleValues      []string `json:"possibleValues,omitempty" yaml:"possibleValues,omitempty"`
	MinValues           *uint64  `json:"minValues,omitempty" yaml:"minValues,omitempty"`
	MaxValues           *uint64  `json:"maxValues,omitempty" yaml:"maxValues,omitempty"`

	Required          bool     `json:"required,omitempty" yaml:"required,omitempty"`
	RequiredUnless    string   `json:"requiredUnless,omitempty" yaml:"requiredUnless,omitempty"`
	RequiredUnlessAll []string `json:"requiredUnlessAll,omitempty" yaml:"requiredUnlessAll,omitempty"`
	RequiredUnlessOne []string `json:"requiredUnlessOne,omitempty" yaml:"requiredUnlessOne,omitempty"`
	Requires          string   `json:"requires,omitempty" yaml:"requires,omitempty"`
	RequiresAll       []string `json:"requiresAll,omitempty" yaml:"requiresAll,omitempty"`
	// RequiresIf and RequiredIf are [arg, value] pairs.
	RequiresIf []string `json:"requiresIf,omitempty" yaml:"requiresIf,omitempty"`
	RequiredIf []string `json:"requiredIf,omitempty" yaml:"requiredIf,omitempty"`

	ConflictsWith    string   `json:"conflictsWith,omitempty" yaml:"conflictsWith,omitempty"`
	ConflictsWithAll []string `json:"conflictsWithAll,omitempty" yaml:"conflictsWithAll,omitempty"`

	RequireEquals bool    `json:"requireEquals,omitempty" yaml:"requireEquals,omitempty"`
	Index         *uint64 `json:"index,omitempty" yaml:"index,omitempty"`
}

// ShortFlag returns the single-rune short flag with any leading dashes removed.
func (a CliArg) ShortFlag() (rune, bool) {
	s := strings.TrimLeft(a.Short, "-")
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

// EnabledFeatures returns the allowlist entries set to true, sorted.
func (c *Config) EnabledFeatures() []string {
	features := make([]string, 0, len(c.App.Allowlist))
	for name, on := range c.App.Allowlist {
		if on {
			features = append(features, name)
		}
	}
	slices.Sort(features)
	return features
}

// PluginNames returns the configured plugin names, sorted.
func (c *Config) PluginNames() []string {
	return slices.Sorted(maps.Keys(c.Plugins))
}

// Clone returns a copy that shares no collections with c.
func (c *Config) Clone() Config {
	out := *c
	out.App.Allowlist = maps.Clone(c.App.Allowlist)
	out.App.Bundle.Icon = slices.Clone(c.App.Bundle.Icon)
	out.App.Bundle.Deb.Depends = slices.Clone(c.App.Bundle.Deb.Depends)
	out.App.CLI = c.App.CLI.clone()
	if c.Plugins != nil {
		out.Plugins = cloneValue(c.Plugins).(map[string]any)
	}
	return out
}

// cloneValue deep copies decoded JSON documents.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

func (c *CliConfig) clone() *CliConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Args != nil {
		out.Args = make([]CliArg, len(c.Args))
		for i, arg := range c.Args {
			out.Args[i] = arg.clone()
		}
	}
	if c.Subcommands != nil {
		out.Subcommands = make(map[string]*CliConfig, len(c.Subcommands))
		for name, sub := range c.Subcommands {
			out.Subcommands[name] = sub.clone()
		}
	}
	return &out
}

func (a CliArg) clone() CliArg {
	out := a
	out.NumberOfValues = clonePtr(a.NumberOfValues)
	out.MinValues = clonePtr(a.MinValues)
	out.MaxValues = clonePtr(a.MaxValues)
	out.Index = clonePtr(a.Index)
	out.PossibleValues = slices.Clone(a.PossibleValues)
	out.RequiredUnlessAll = slices.Clone(a.RequiredUnlessAll)
	out.RequiredUnlessOne = slices.Clone(a.RequiredUnlessOne)
	out.RequiresAll = slices.Clone(a.RequiresAll)
	out.RequiresIf = slices.Clone(a.RequiresIf)
	out.RequiredIf = slices.Clone(a.RequiredIf)
	out.ConflictsWithAll = slices.Clone(a.ConflictsWithAll)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
