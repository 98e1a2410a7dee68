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

package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bridge"
	"github.com/NVIDIA/shellpack/pkg/bundler"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/config"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/manifest"
	"github.com/NVIDIA/shellpack/pkg/oci"
	"github.com/NVIDIA/shellpack/pkg/paths"
	"github.com/NVIDIA/shellpack/pkg/process"
)

// Environment variables exported for the pre-build hook and the compiler.
const (
	EnvShellDir = "SHELLPACK_DIR"
	EnvDistDir  = "SHELLPACK_DIST_DIR"
)

// Bundler turns compiled settings into package artifacts.
type Bundler interface {
	Make(ctx context.Context, st *settings.Settings) (*result.Output, error)
}

// PublishFunc pushes the artifacts of a run to a registry.
type PublishFunc func(ctx context.Context, opts oci.PublishOptions) (*oci.PublishResult, error)

// Builder runs the build pipeline for one project. It is not safe for
// concurrent use.
type Builder struct {
	debug   bool
	verbose bool
	targets []string
	patch   string

	publishRef  string
	plainHTTP   bool
	insecureTLS bool

	projectDir string
	store      *config.Store
	runner     process.Runner
	compiler   Compiler
	bundler    Bundler
	publish    PublishFunc
}

// Option is a functional option for configuring a Builder.
type Option func(*Builder)

// WithProjectDir sets the directory project discovery starts from.
// Defaults to the working directory.
func WithProjectDir(dir string) Option {
	return func(b *Builder) {
		b.projectDir = dir
	}
}

// WithStore sets the configuration store. Defaults to the process-wide
// store for the discovered configuration file.
func WithStore(s *config.Store) Option {
	return func(b *Builder) {
		b.store = s
	}
}

// WithRunner sets the process runner used by the hook, the compiler and the
// default bundler.
func WithRunner(r process.Runner) Option {
	return func(b *Builder) {
		b.runner = r
	}
}

// WithCompiler replaces the Go compiler.
func WithCompiler(c Compiler) Option {
	return func(b *Builder) {
		b.compiler = c
	}
}

// WithBundler replaces the bundler pipeline.
func WithBundler(bn Bundler) Option {
	return func(b *Builder) {
		b.bundler = bn
	}
}

// WithPublisher replaces the OCI publish function.
func WithPublisher(fn PublishFunc) Option {
	return func(b *Builder) {
		b.publish = fn
	}
}

// New creates a Builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{
		projectDir: ".",
		publish:    oci.Publish,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.runner == nil {
		b.runner = process.NewExecRunner()
	}
	if b.compiler == nil {
		b.compiler = NewGoCompiler(b.runner)
	}
	if b.bundler == nil {
		b.bundler = bundler.New(bundler.WithRunner(b.runner))
	}
	return b
}

// Debug selects the debug profile.
func (b *Builder) Debug() *Builder {
	b.debug = true
	return b
}

// Verbose streams tool output.
func (b *Builder) Verbose() *Builder {
	b.verbose = true
	return b
}

// Targets sets the requested package type short names. Nil means platform
// defaults; "none" disables bundling.
func (b *Builder) Targets(names []string) *Builder {
	b.targets = slices.Clone(names)
	return b
}

// Config sets the JSON merge patch applied over the configuration file.
func (b *Builder) Config(patch string) *Builder {
	b.patch = patch
	return b
}

// Publish pushes the artifacts to an oci:// reference after bundling.
func (b *Builder) Publish(ref string, plainHTTP, insecureTLS bool) *Builder {
	b.publishRef = ref
	b.plainHTTP = plainHTTP
	b.insecureTLS = insecureTLS
	return b
}

// Result describes a finished build.
type Result struct {
	Settings  *settings.Settings
	Output    *result.Output
	Published *oci.PublishResult
	DistDir   string
	Duration  time.Duration
}

// plan holds everything read from the configuration under the handle lock.
type plan struct {
	settings    *settings.Settings
	distDir     string
	hook        string
	bundle      bool
	productName string
}

// Run executes the build. Target names and the publish reference are
// validated before anything is written.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	var ref *oci.Reference
	if b.publishRef != "" {
		parsed, err := oci.ParseReference(b.publishRef)
		if err != nil {
			return nil, err
		}
		ref = parsed
	}

	p, err := paths.Discover(b.projectDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to locate project", err)
	}

	store := b.store
	if store == nil {
		store = config.DefaultStore(p.ConfigPath)
	}
	h, err := store.Load(b.patch)
	if err != nil {
		return nil, err
	}

	pl, err := b.prepare(h, p)
	if err != nil {
		return nil, err
	}

	if pl.hook != "" {
		if err := runHook(ctx, b.runner, pl.hook, p.AppDir, b.verbose); err != nil {
			return nil, err
		}
	}

	if err := b.compiler.Compile(ctx, pl.settings); err != nil {
		return nil, err
	}

	res := &Result{Settings: pl.settings, DistDir: pl.distDir}

	if !pl.bundle {
		slog.Info("bundling inactive, skipping package generation")
		res.Output = &result.Output{OutputDir: pl.settings.BundleDirectory()}
	} else {
		out, err := b.bundler.Make(ctx, pl.settings)
		res.Output = out
		if err != nil {
			return res, err
		}
	}

	if ref != nil {
		published, err := b.publish(ctx, oci.PublishOptions{
			Reference:   ref,
			Output:      res.Output,
			Version:     pl.settings.VersionString(),
			Title:       pl.productName,
			PlainHTTP:   b.plainHTTP,
			InsecureTLS: b.insecureTLS,
		})
		if err != nil {
			return res, err
		}
		res.Published = published
	}

	res.Duration = time.Since(start)
	slog.Info("build complete",
		"product", pl.productName,
		"artifacts", len(res.Output.Artifacts),
		"duration_sec", res.Duration.Seconds(),
	)
	return res, nil
}

// prepare validates the targets, exports the environment, rewrites the
// manifest, writes the bridging script and builds the settings.
func (b *Builder) prepare(h *config.Handle, p paths.Paths) (*plan, error) {
	cfg := h.Lock()
	locked := true
	defer func() {
		if locked {
			h.Unlock()
		}
	}()

	pts, err := types.ParseShortNames(b.targets)
	if err != nil {
		return nil, err
	}

	distDir := DistDir(p.ShellDir, cfg.Build.DistDir)
	if err := os.Chdir(p.ShellDir); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to enter shell directory", err,
			map[string]any{"path": p.ShellDir})
	}
	if err := setenv(EnvShellDir, p.ShellDir); err != nil {
		return nil, err
	}
	if err := setenv(EnvDistDir, distDir); err != nil {
		return nil, err
	}

	// the rewriter takes the lock itself
	h.Unlock()
	locked = false
	if err := manifest.NewRewriter(p.ShellDir).Rewrite(h); err != nil {
		return nil, err
	}
	cfg = h.Lock()
	locked = true

	if err := writeBridge(distDir, cfg.Build.WithGlobalBridge); err != nil {
		return nil, err
	}

	st, err := b.settingsFor(cfg, p, pts)
	if err != nil {
		return nil, err
	}

	return &plan{
		settings:    st,
		distDir:     distDir,
		hook:        cfg.Build.BeforeBuildCommand,
		bundle:      cfg.App.Bundle.Active,
		productName: cfg.Package.ProductName,
	}, nil
}

func (b *Builder) settingsFor(cfg *config.Config, p paths.Paths, pts []types.PackageType) (*settings.Settings, error) {
	bundle := cfg.App.Bundle
	sb := settings.NewBuilder().
		Dirs(p.AppDir, p.ShellDir).
		Package(cfg.Package.ProductName, cfg.Package.BinaryName, cfg.Package.Version).
		Identifier(bundle.Identifier).
		Icons(bundle.Icon).
		Descriptions(bundle.Copyright, bundle.Category, bundle.ShortDescription, bundle.LongDescription).
		OSX(bundle.OSX.License, bundle.OSX.SigningIdentity, bundle.OSX.MinimumSystemVersion).
		DebDepends(bundle.Deb.Depends).
		AllowlistFeatures(cfg.App.Allowlist).
		PackageTypes(pts).
		Verbose(b.verbose)
	if b.debug {
		sb.Debug()
	}
	return sb.Build()
}

// DistDir resolves the front-end dist directory against the shell directory.
func DistDir(shellDir, distDir string) string {
	if filepath.IsAbs(distDir) {
		return filepath.Clean(distDir)
	}
	return filepath.Join(shellDir, distDir)
}

func writeBridge(distDir string, global bool) error {
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create dist directory", err,
			map[string]any{"path": distDir})
	}
	path := filepath.Join(distDir, bridge.FileName)
	if err := os.WriteFile(path, []byte(bridge.Script(global)), 0o644); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to write bridging script", err,
			map[string]any{"path": path})
	}
	slog.Debug("bridging script written", "path", path, "global", global)
	return nil
}

func setenv(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to set environment variable", err,
			map[string]any{"key": key})
	}
	return nil
}
