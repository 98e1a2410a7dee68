// Package cli implements the command-line interface for the shellpack tool.
//
// # Overview
//
// shellpack compiles the native shell of a desktop application and packages
// it for macOS, Linux and Windows. A project is a directory holding
// src-shell/shellpack.conf.json (or .yaml/.yml); commands search for it
// upwards from --project.
//
// # Commands
//
// build - Compile and package:
//
//	shellpack build [--debug] [--verbose] [--target NAME]... [--config PATCH]
//	    [--project DIR] [--publish oci://REF] [--plain-http] [--insecure-tls]
//
// Runs the pre-build hook, compiles the shell and produces the requested
// packages under src-shell/target/<mode>/bundle. Without --target the
// platform defaults are built; "--target none" skips bundling.
//
// config - Print the resolved configuration:
//
//	shellpack config [--config PATCH] [--format yaml|json|table]
//
// formats - List the package formats:
//
//	shellpack formats
//
// # Global Flags
//
//	--log-level    Logging verbosity: debug, info, warn, error (default: info)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	LOG_LEVEL   Fallback for --log-level
//	CI          "true" passes --skip-jenkins to the disk image script
//	WIX         WiX Toolset installation directory
//
// # Exit Codes
//
//	0  Success
//	1  Any error; the message includes the error code
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to:
//   - pkg/build - Build pipeline
//   - pkg/config - Configuration loading
//   - pkg/bundler - Package generation
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/shellpack/pkg/cli.version=1.0.0'"
package cli
