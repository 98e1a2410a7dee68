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

// Package defaults provides centralized timeout constants for shellpack.
//
// # Timeout Categories
//
//   - Process timeouts: For external packaging tools
//   - Publish timeouts: For OCI registry pushes
//   - HTTP client timeouts: For outbound registry requests
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
//	defer cancel()
//
// Builds have no overall timeout: compiling and packaging run until they
// finish or the caller cancels.
package defaults
