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

import "strings"

// Default values for fields absent from the configuration file.
const (
	DefaultHost                 = "http://127.0.0.1"
	DefaultDistDir              = "../dist"
	DefaultProductName          = "app"
	DefaultVersion              = "0.1.0"
	DefaultMinimumSystemVersion = "10.11"
)

// Default returns a configuration populated with every per-field default.
// Decoding a document onto it keeps defaults for fields the document omits.
func Default() *Config {
	return &Config{
		App: AppConfig{
			EmbeddedServer: EmbeddedServerConfig{
				Host: DefaultHost,
				Port: RandomPort(),
			},
			Bundle: BundleConfig{
				OSX: OSXConfig{
					MinimumSystemVersion: DefaultMinimumSystemVersion,
				},
			},
		},
		Build: BuildConfig{
			DistDir: DefaultDistDir,
		},
		Package: PackageConfig{
			ProductName: DefaultProductName,
			Version:     DefaultVersion,
		},
	}
}

// BinaryNameFor derives the executable name from a product name.
func BinaryNameFor(productName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(productName)), " ", "-")
}

func (c *Config) applyDerivedDefaults() {
	if c.Package.BinaryName == "" {
		c.Package.BinaryName = BinaryNameFor(c.Package.ProductName)
	}
}
