package build

import (
	"context"
	"log/slog"

	"mvdan.cc/sh/v3/shell"

	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

// HookCommand tokenizes a hook line with POSIX shell quoting and expands
// environment variables. An empty line yields ok == false.
func HookCommand(line, dir string, verbose bool) (process.Command, bool, error) {
	fields, err := shell.Fields(line, nil)
	if err != nil {
		return process.Command{}, false, errors.WrapWithContext(errors.ErrCodeConfig,
			"invalid beforeBuildCommand", err, map[string]any{"command": line})
	}
	if len(fields) == 0 {
		return process.Command{}, false, nil
	}
	return process.Command{
		Name:    fields[0],
		Args:    fields[1:],
		Dir:     dir,
		Verbose: verbose,
	}, true, nil
}

func runHook(ctx context.Context, runner process.Runner, line, dir string, verbose bool) error {
	cmd, ok, err := HookCommand(line, dir, verbose)
	if err != nil || !ok {
		return err
	}

	slog.Info("running beforeBuildCommand", "command", cmd.String(), "dir", dir)
	if _, err := runner.Run(ctx, cmd); err != nil {
		return errors.WrapWithContext(errors.ErrCodeProcessExecution, "beforeBuildCommand failed", err,
			map[string]any{"command": line})
	}
	return nil
}
