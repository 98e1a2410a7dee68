/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/shellpack/pkg/bundler"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
)

func formatsCmd() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List the supported package formats",
		Action: func(_ context.Context, cmd *cli.Command) error {
			printFormats(cmd.Root().Writer, runtime.GOOS, bundler.DefaultRegistry(nil).List())
			return nil
		},
	}
}

// printFormats lists the registered package types and marks the defaults
// for goos.
func printFormats(w io.Writer, goos string, registered []types.PackageType) {
	defaults := types.PlatformDefaults(goos)
	for _, pt := range registered {
		marker := " "
		if slices.Contains(defaults, pt) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-9s %s\n", marker, pt.ShortName(), pt.Description())
	}
	fmt.Fprintf(w, "\n* default on %s; use \"%s\" to disable bundling\n", goos, types.NoneShortName)
}
