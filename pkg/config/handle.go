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
	"sync"
	"sync/atomic"
)

// Handle is a shared, mutex guarded reference to a loaded configuration.
// Every caller of Store.Load receives the same Handle, and Store.Reload swaps
// the value in place so previously captured handles observe the new value.
type Handle struct {
	mu     sync.Mutex
	cfg    *Config
	loaded atomic.Bool
}

func newHandle() *Handle {
	return &Handle{}
}

// Lock acquires the handle and returns the guarded configuration.
// Callers must call Unlock when done and must not retain the pointer.
func (h *Handle) Lock() *Config {
	h.mu.Lock()
	return h.cfg
}

// Unlock releases the handle.
func (h *Handle) Unlock() {
	h.mu.Unlock()
}

// View runs fn with the configuration while holding the lock.
func (h *Handle) View(fn func(*Config) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.cfg)
}

// Snapshot returns a copy of the current configuration.
// An unloaded handle yields the zero Config.
func (h *Handle) Snapshot() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg == nil {
		return Config{}
	}
	return h.cfg.Clone()
}

// Loaded reports whether a value has been stored.
func (h *Handle) Loaded() bool {
	return h.loaded.Load()
}

func (h *Handle) set(cfg *Config) {
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	h.loaded.Store(true)
}
