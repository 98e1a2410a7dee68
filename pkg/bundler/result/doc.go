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

// Package result provides types for tracking bundler pipeline results.
//
// # Core Types
//
// Artifact: one produced file or directory
//
//	type Artifact struct {
//	    Path     string
//	    Type     types.PackageType
//	    Size     int64
//	    Checksum string
//	}
//
// Result: one strategy execution (success flag, artifacts, duration, errors)
//
// Output: the whole run (build ID, results, deduplicated artifacts, errors)
//
// # Usage
//
//	out := result.NewOutput(uuid.NewString(), s.BundleDirectory())
//	out.AddArtifacts(appArtifact, dmgArtifact)
//	out.AddArtifacts(appArtifact) // ignored, same path
//	fmt.Println(out.Summary())
//	// Produced 2 artifacts (14.2 MB) in 3.1s. Success: 2/2 package types.
//
// Individual Result instances are not thread-safe.
package result
