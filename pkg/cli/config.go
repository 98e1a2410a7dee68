/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/shellpack/pkg/config"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/paths"
	"github.com/NVIDIA/shellpack/pkg/serializer"
)

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

func configCmd() *cli.Command {
	return &cli.Command{
		Name:                  "config",
		EnableShellCompletion: true,
		Usage:                 "Print the resolved project configuration",
		Description: `Loads src-shell/shellpack.conf.json (or .yaml/.yml), applies the optional
merge patch and defaults, validates the result and prints it.

# Examples

  shellpack config
  shellpack config --format json --config '{"app":{"bundle":{"active":true}}}'`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "JSON merge patch applied over the configuration file",
			},
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"p"},
				Value:   ".",
				Usage:   "Directory to search for the project from",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatYAML),
				Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			p, err := paths.Discover(cmd.String("project"))
			if err != nil {
				return errors.Wrap(errors.ErrCodeConfig, "failed to locate project", err)
			}
			h, err := config.DefaultStore(p.ConfigPath).Load(cmd.String("config"))
			if err != nil {
				return err
			}

			cfg := h.Snapshot()
			return writeConfig(ctx, cmd.Root().Writer, &cfg, format)
		},
	}
}

func writeConfig(ctx context.Context, w io.Writer, cfg *config.Config, format serializer.Format) error {
	if err := serializer.NewWriter(format, w).Serialize(ctx, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to serialize configuration", err)
	}
	return nil
}
