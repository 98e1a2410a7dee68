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

// Package process runs external tool chains for the build and bundle steps.
//
// All subprocess execution in shellpack flows through the Runner interface so
// that strategies can be exercised in tests with a fake that records commands
// and emulates tool outputs.
//
// # Runner
//
//	type Runner interface {
//	    Run(ctx context.Context, cmd Command) (*Output, error)
//	}
//
// ExecRunner is the production implementation backed by os/exec. Stdout and
// stderr are always captured. When Command.Verbose is set both streams are
// also forwarded to the parent process so the user sees tool output live.
//
// # Errors
//
// A spawn failure or a non-zero exit is reported as a StructuredError with
// code PROCESS_EXECUTION. Its context carries the command name, the exit code
// (-1 when the process never started), and the captured stderr.
//
// # Usage
//
//	out, err := process.ExecuteWithVerbosity(ctx, process.Command{
//	    Name: "dpkg-deb",
//	    Args: []string{"--build", "--root-owner-group", "data", "app.deb"},
//	    Dir:  stageDir,
//	}, settings.IsVerbose())
package process
