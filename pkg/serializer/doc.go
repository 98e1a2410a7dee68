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

// Package serializer renders command output as JSON, YAML or a flat table.
//
// JSON and YAML are indented by two spaces. The table format flattens nested
// structs, maps and slices into dotted keys sorted alphabetically:
//
//	FIELD                 VALUE
//	-----                 -----
//	Package.ProductName   Demo
//	Package.Version       1.0.0
//
// Usage:
//
//	format, err := serializer.ParseFormat("yaml")
//	if err != nil {
//		return err
//	}
//	if err := serializer.NewWriter(format, os.Stdout).Serialize(ctx, cfg); err != nil {
//		return err
//	}
package serializer
