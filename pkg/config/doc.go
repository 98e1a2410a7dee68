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

// Package config loads, merges, and caches the project configuration.
//
// The configuration lives at <app>/src-shell/shellpack.conf.json. YAML files
// (.yaml or .yml) are accepted as well and are converted to JSON before any
// patch is applied.
//
// # Loading
//
// A Store reads the file at most once:
//
//	store := config.NewStore(paths.ConfigPath)
//	h, err := store.Load(`{"build":{"withGlobalBridge":true}}`)
//	if err != nil {
//	    return err
//	}
//	cfg := h.Lock()
//	distDir := cfg.Build.DistDir
//	h.Unlock()
//
// Concurrent first loads collapse into a single read. Later calls return the
// same Handle without touching the disk, whatever patch they pass. Reload
// re-reads the file and swaps the value in place so existing handles observe
// it. Reset drops the cache entirely.
//
// # Patches
//
// The patch argument is an RFC 7386 JSON merge patch. A null member removes a
// key, objects merge recursively, and every other value (arrays included)
// replaces the base value:
//
//	base:   {"build":{"distDir":"../dist","devPath":"http://localhost:3000"}}
//	patch:  {"build":{"devPath":null}}
//	result: {"build":{"distDir":"../dist"}}
//
// # Defaults
//
// The merged document is decoded onto Default(), so absent fields keep their
// defaults while explicit zero values are honoured. package.binaryName is
// derived from package.productName when unset.
//
// # Errors
//
// Every failure carries ErrCodeConfig: a missing or unreadable file, an
// invalid patch, a type mismatch, an invalid embeddedServer port, or a
// structural rule violated by app.cli.
package config
