/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/shellpack/pkg/build"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
)

// buildCmdOptions holds parsed options for the build command.
type buildCmdOptions struct {
	debug       bool
	verbose     bool
	targets     []string
	patch       string
	projectDir  string
	publish     string
	plainHTTP   bool
	insecureTLS bool
}

func parseBuildCmdOptions(cmd *cli.Command) *buildCmdOptions {
	return &buildCmdOptions{
		debug:       cmd.Bool("debug"),
		verbose:     cmd.Bool("verbose"),
		targets:     cmd.StringSlice("target"),
		patch:       cmd.String("config"),
		projectDir:  cmd.String("project"),
		publish:     cmd.String("publish"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
	}
}

func (o *buildCmdOptions) builder(opts ...build.Option) *build.Builder {
	b := build.New(append([]build.Option{build.WithProjectDir(o.projectDir)}, opts...)...)
	if o.debug {
		b.Debug()
	}
	if o.verbose {
		b.Verbose()
	}
	return b.Targets(o.targets).
		Config(o.patch).
		Publish(o.publish, o.plainHTTP, o.insecureTLS)
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:                  "build",
		EnableShellCompletion: true,
		Usage:                 "Compile the shell and generate distributable packages",
		Description: `Compiles the shell in src-shell and, when app.bundle.active is set, packages
the binary for the requested formats.

Without --target the platform defaults are used:
  - darwin: osx, dmg
  - linux:  deb, appimage
  - windows: msi

Use "--target none" to compile without bundling.

# Examples

Release build with platform default packages:
  shellpack build

Debug build of a Debian package only:
  shellpack build --debug --target deb

Override configuration values for one build:
  shellpack build --config '{"package":{"version":"1.2.0"}}'

Build and publish the packages to a registry:
  shellpack build --publish oci://ghcr.io/example/app:1.2.0`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Build with the debug profile",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Stream the output of external tools",
			},
			&cli.StringSliceFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Package format to produce (osx, dmg, deb, appimage, msi or none), can be repeated",
			},
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
				Name:  "publish",
				Usage: "OCI reference to push the packages to (e.g., oci://ghcr.io/example/app:1.0.0)",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for OCI registry",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for OCI registry (for local development)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := parseBuildCmdOptions(cmd)

			slog.Info("building",
				slog.String("project", opts.projectDir),
				slog.Any("targets", opts.targets),
				slog.Bool("debug", opts.debug),
			)

			res, err := opts.builder().Run(ctx)
			if err != nil {
				if res != nil && res.Output != nil && res.Output.HasErrors() {
					printFailedTypes(cmd.Root().ErrWriter, res.Output)
				}
				return err
			}

			printBuildResult(cmd.Root().Writer, res)
			return nil
		},
	}
}

// printBuildResult prints the produced package paths.
func printBuildResult(w io.Writer, res *build.Result) {
	fmt.Fprintf(w, "Binary: %s\n", res.Settings.BinaryPath())
	if res.Output == nil || len(res.Output.Artifacts) == 0 {
		fmt.Fprintln(w, "No packages generated.")
		return
	}

	fmt.Fprintln(w, res.Output.Summary())
	for _, a := range res.Output.Artifacts {
		fmt.Fprintf(w, "  %-9s %s\n", a.Type, a.Path)
	}
	if res.Output.ChecksumFile != "" {
		fmt.Fprintf(w, "Checksums: %s\n", res.Output.ChecksumFile)
	}
	if res.Published != nil {
		fmt.Fprintf(w, "Published: %s@%s\n", res.Published.Reference, res.Published.Digest)
	}
}

// printFailedTypes reports the package types that failed in a partial run
// together with the packages produced before the failure.
func printFailedTypes(w io.Writer, out *result.Output) {
	if w == nil {
		w = os.Stderr
	}
	failed := make([]string, 0, len(out.Errors))
	for _, pt := range out.FailedTypes() {
		failed = append(failed, pt.ShortName())
	}
	fmt.Fprintf(w, "Failed: %s\n", strings.Join(failed, ", "))
	for _, a := range out.Artifacts {
		fmt.Fprintf(w, "  %-9s %s (kept)\n", a.Type, a.Path)
	}
}
