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

// Package paths locates the directories of a shellpack project.
//
// A project has an application root (AppDir) that contains the front-end and a
// shell directory (ShellDir, "src-shell") that contains the native sources and
// the configuration file.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ShellDirName is the directory holding the native shell sources.
	ShellDirName = "src-shell"

	// ConfigFileName is the preferred configuration file name.
	ConfigFileName = "shellpack.conf.json"
)

// configCandidates are checked in order inside the shell dir.
var configCandidates = []string{
	ConfigFileName,
	"shellpack.conf.yaml",
	"shellpack.conf.yml",
}

// Paths holds absolute project locations.
type Paths struct {
	AppDir     string
	ShellDir   string
	ConfigPath string
}

// New derives project paths from an application root.
// The JSON configuration path is used when no configuration file exists yet.
func New(appDir string) (Paths, error) {
	abs, err := filepath.Abs(appDir)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve %s: %w", appDir, err)
	}

	shell := filepath.Join(abs, ShellDirName)
	p := Paths{
		AppDir:     abs,
		ShellDir:   shell,
		ConfigPath: filepath.Join(shell, ConfigFileName),
	}
	if found, ok := findConfig(shell); ok {
		p.ConfigPath = found
	}
	return p, nil
}

// Discover walks up from start until it finds a directory containing
// src-shell with a configuration file.
func Discover(start string) (Paths, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		// Started inside the shell dir itself.
		if filepath.Base(dir) == ShellDirName {
			if _, ok := findConfig(dir); ok {
				return New(filepath.Dir(dir))
			}
		}
		if _, ok := findConfig(filepath.Join(dir, ShellDirName)); ok {
			return New(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Paths{}, fmt.Errorf("no %s/%s found in %s or any parent directory",
				ShellDirName, ConfigFileName, start)
		}
		dir = parent
	}
}

func findConfig(shellDir string) (string, bool) {
	for _, name := range configCandidates {
		p := filepath.Join(shellDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
