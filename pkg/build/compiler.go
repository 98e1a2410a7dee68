/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

// Compiler produces the shell binary at the settings binary path.
type Compiler interface {
	Compile(ctx context.Context, st *settings.Settings) error
}

// GoCompiler runs `go build` in the shell directory.
type GoCompiler struct {
	runner process.Runner
}

// NewGoCompiler creates a compiler that runs through runner.
// A nil runner uses an ExecRunner.
func NewGoCompiler(runner process.Runner) *GoCompiler {
	if runner == nil {
		runner = process.NewExecRunner()
	}
	return &GoCompiler{runner: runner}
}

// Compile builds the binary for the selected profile.
func (c *GoCompiler) Compile(ctx context.Context, st *settings.Settings) error {
	cmd := process.Command{
		Name:    "go",
		Args:    CompileArgs(st),
		Dir:     st.ShellDirectory(),
		Verbose: st.IsVerbose(),
	}

	slog.Info("compiling shell",
		"mode", st.Mode(),
		"output", st.BinaryPath(),
		"features", len(st.Features()),
	)

	outDir := filepath.Dir(st.BinaryPath())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
			map[string]any{"path": outDir})
	}

	if _, err := c.runner.Run(ctx, cmd); err != nil {
		return errors.WrapWithContext(errors.ErrCodeProcessExecution, "failed to compile shell", err,
			map[string]any{"command": cmd.String()})
	}
	return nil
}

// CompileArgs returns the `go` arguments for st. Enabled features become
// build tags.
func CompileArgs(st *settings.Settings) []string {
	args := []string{"build"}
	if features := st.Features(); len(features) > 0 {
		args = append(args, "-tags", strings.Join(features, ","))
	}
	if st.IsRelease() {
		args = append(args, "-trimpath", "-ldflags=-s -w")
	} else {
		args = append(args, "-gcflags=all=-N -l")
	}
	return append(args, "-o", st.BinaryPath(), ".")
}
