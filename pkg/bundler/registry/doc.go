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

// Package registry maps package types to bundler strategies.
//
// # Strategy
//
// Each package type is produced by one Strategy:
//
//	type Strategy interface {
//	    Type() types.PackageType
//	    Bundle(ctx context.Context, s *settings.Settings, r Resolver) ([]result.Artifact, error)
//	}
//
// Strategies compose through the Resolver. The disk image strategy asks for
// the application bundle instead of building it itself:
//
//	apps, err := r.Resolve(ctx, types.PackageTypeOsxBundle)
//
// The pipeline memoizes resolution so a dependency requested both directly
// and by a dependent runs once.
//
// # Registry
//
// The registry is built explicitly from a closed set of strategies. There is
// no global registration:
//
//	reg := registry.NewRegistry(
//	    osx.NewStrategy(runner),
//	    dmg.NewStrategy(runner),
//	)
//	s, ok := reg.Get(types.PackageTypeDmg)
//
// All Registry methods are safe for concurrent use.
package registry
