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

// Package checksum writes and verifies SHA256 digests of produced artifacts.
//
// After a successful pipeline run every file artifact is hashed into
// <projectOut>/bundle/checksums.txt:
//
//	sums, err := checksum.GenerateChecksums(ctx, bundleDir, files)
//	if err != nil {
//	    return err
//	}
//
// Directory artifacts such as .app bundles are not hashed. The file format
// is compatible with sha256sum:
//
//	cd target/release/bundle && sha256sum -c checksums.txt
package checksum
