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
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonpatch "gopkg.in/evanphx/json-patch.v4"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// Store loads the configuration file at most once and hands out a shared Handle.
type Store struct {
	path     string
	readFile func(string) ([]byte, error)

	mu     sync.Mutex
	handle *Handle
	group  singleflight.Group
}

// NewStore creates a store for the configuration file at path.
// Nothing is read until Load is called.
func NewStore(path string) *Store {
	return &Store{
		path:     path,
		readFile: os.ReadFile,
		handle:   newHandle(),
	}
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Load returns the cached handle, reading the file on first use.
// The patch is an RFC 7386 JSON merge patch applied over the file contents.
// It is only consulted by the call that performs the read; once cached,
// later patches are ignored until Reload.
//
// Concurrent first loads share one read. Every caller gets the handle that
// read populated, even when Reset ran while the read was in flight.
func (s *Store) Load(patch string) (*Handle, error) {
	if h := s.current(); h.Loaded() {
		recordCacheHit()
		return h, nil
	}

	v, err, _ := s.group.Do("load", func() (any, error) {
		h := s.current()
		if h.Loaded() {
			return h, nil
		}
		recordCacheMiss()
		cfg, err := s.read(patch)
		if err != nil {
			return nil, err
		}
		h.set(cfg)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

// Reload re-reads the file and swaps the value inside the existing handle.
func (s *Store) Reload(patch string) error {
	cfg, err := s.read(patch)
	if err != nil {
		return err
	}
	s.current().set(cfg)
	slog.Debug("configuration reloaded", "path", s.path)
	return nil
}

// Reset drops the cached value. Handles obtained earlier keep their last value.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = newHandle()
}

func (s *Store) read(patch string) (*Config, error) {
	doc, err := readDocument(s.readFile, s.path)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(patch) != "" {
		doc, err = jsonpatch.MergePatch(doc, []byte(patch))
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeConfig,
				"invalid configuration patch", err,
				map[string]any{"patch": patch})
		}
	}

	cfg := Default()
	if err := json.Unmarshal(doc, cfg); err != nil {
		if errors.IsCode(err, errors.ErrCodeConfig) {
			return nil, err
		}
		return nil, errors.WrapWithContext(errors.ErrCodeConfig,
			"failed to decode configuration", err,
			map[string]any{"path": s.path})
	}
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded",
		"path", s.path,
		"patched", patch != "",
	)
	return cfg, nil
}

// readDocument returns the file as a JSON object document.
// YAML files are converted so the merge patch always operates on JSON.
func readDocument(readFile func(string) ([]byte, error), path string) ([]byte, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeConfig,
			"unable to read configuration file", err,
			map[string]any{"path": path})
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeConfig,
				"failed to parse YAML configuration", err,
				map[string]any{"path": path})
		}
		data, err = json.Marshal(normalize(v))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, "failed to convert YAML configuration", err)
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []byte("{}"), nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.NewWithContext(errors.ErrCodeConfig,
			"configuration file is not valid JSON",
			map[string]any{"path": path})
	}
	return trimmed, nil
}

// normalize converts yaml.v3 generic values into JSON encodable ones.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

var (
	defaultMu    sync.Mutex
	defaultStore *Store
)

// DefaultStore returns the process-wide store for path. A default store for
// another path is replaced, so its cached value is dropped.
func DefaultStore(path string) *Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultStore == nil || defaultStore.Path() != path {
		defaultStore = NewStore(path)
	}
	return defaultStore
}

// SetDefault replaces the process-wide store.
func SetDefault(s *Store) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStore = s
}

// ResetDefault discards the process-wide store. Tests call it to isolate
// cached configuration.
func ResetDefault() {
	SetDefault(nil)
}
