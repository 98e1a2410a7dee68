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

package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/NVIDIA/shellpack/pkg/defaults"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Name is the executable, resolved through PATH when not absolute.
	Name string

	// Args are passed verbatim, no shell interpretation.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds additional KEY=VALUE entries appended to the parent environment.
	Env []string

	// Verbose streams tool output to the parent's stdout and stderr.
	Verbose bool
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Output holds what a finished process produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (*Output, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Output, error) {
	return f(ctx, cmd)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive live output when a command is verbose.
	// They default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner wired to the process streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts the command and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	if cmd.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "command name is required")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = defaults.ProcessWaitDelay
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	if cmd.Verbose {
		c.Stdout = io.MultiWriter(&stdout, r.streamOrDefault(r.Stdout, os.Stdout))
		c.Stderr = io.MultiWriter(&stderr, r.streamOrDefault(r.Stderr, os.Stderr))
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	start := time.Now()
	slog.Debug("running command",
		"command", cmd.Name,
		"args", cmd.Args,
		"dir", cmd.Dir,
	)

	err := c.Run()
	out := &Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode(c, err),
	}

	slog.Debug("command finished",
		"command", cmd.Name,
		"exit_code", out.ExitCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if err != nil {
		return out, Failure(cmd, out, err)
	}
	return out, nil
}

func (r *ExecRunner) streamOrDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}

func exitCode(c *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if c.ProcessState != nil {
		return c.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// Failure builds the PROCESS_EXECUTION error for a failed command.
// Fake runners use it so tests observe the same error shape as production.
func Failure(cmd Command, out *Output, cause error) *errors.StructuredError {
	code := -1
	var stderr string
	if out != nil {
		code = out.ExitCode
		stderr = strings.TrimSpace(string(out.Stderr))
	}
	return errors.WrapWithContext(
		errors.ErrCodeProcessExecution,
		fmt.Sprintf("command %q failed", cmd.Name),
		cause,
		map[string]any{
			"command":   cmd.String(),
			"exit_code": code,
			"stderr":    stderr,
		},
	)
}

var defaultRunner Runner = NewExecRunner()

// Execute runs cmd with the default runner.
func Execute(ctx context.Context, cmd Command) (*Output, error) {
	return defaultRunner.Run(ctx, cmd)
}

// ExecuteWithVerbosity runs cmd with the default runner and the given verbosity.
func ExecuteWithVerbosity(ctx context.Context, cmd Command, verbose bool) (*Output, error) {
	cmd.Verbose = verbose
	return defaultRunner.Run(ctx, cmd)
}
