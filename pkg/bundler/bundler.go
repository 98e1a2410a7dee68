/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package bundler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/shellpack/pkg/bundler/appimage"
	"github.com/NVIDIA/shellpack/pkg/bundler/checksum"
	"github.com/NVIDIA/shellpack/pkg/bundler/deb"
	"github.com/NVIDIA/shellpack/pkg/bundler/dmg"
	"github.com/NVIDIA/shellpack/pkg/bundler/msi"
	"github.com/NVIDIA/shellpack/pkg/bundler/osx"
	"github.com/NVIDIA/shellpack/pkg/bundler/registry"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

// ManifestFileName is the build manifest written next to checksums.txt.
const ManifestFileName = "manifest.yaml"

// DefaultRegistry returns the closed set of packaging strategies.
func DefaultRegistry(runner process.Runner) *registry.Registry {
	if runner == nil {
		runner = process.NewExecRunner()
	}
	return registry.NewRegistry(
		osx.NewStrategy(runner),
		dmg.NewStrategy(runner),
		deb.NewStrategy(runner),
		appimage.NewStrategy(runner),
		msi.NewStrategy(runner),
	)
}

// DefaultBundler runs packaging strategies for the requested package types.
//
// Strategies run one after another. A strategy that depends on another
// package type resolves it through the pipeline, which runs each type at
// most once per Make call.
type DefaultBundler struct {
	registry *registry.Registry
	newID    func() string
}

// Option defines a functional option for configuring DefaultBundler.
type Option func(*DefaultBundler)

// WithRegistry sets the strategy registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(b *DefaultBundler) {
		if reg != nil {
			b.registry = reg
		}
	}
}

// WithRunner builds the default registry on the given process runner.
func WithRunner(runner process.Runner) Option {
	return func(b *DefaultBundler) {
		if runner != nil {
			b.registry = DefaultRegistry(runner)
		}
	}
}

// New creates a DefaultBundler. Without options it uses DefaultRegistry
// with an exec runner.
func New(opts ...Option) *DefaultBundler {
	b := &DefaultBundler{newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = DefaultRegistry(nil)
	}
	return b
}

// Make runs the strategies for the package types of st and returns the
// produced artifacts.
//
// On the first failure remaining types are skipped and the partial output
// is returned with the error. Files already produced stay on disk. After a
// successful run checksums.txt and manifest.yaml are written to the bundle
// directory.
func (b *DefaultBundler) Make(ctx context.Context, st *settings.Settings) (*result.Output, error) {
	if st == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "settings cannot be nil")
	}

	start := time.Now()
	requested := st.TypesToBuild()
	output := result.NewOutput(b.newID(), st.BundleDirectory())

	slog.Info("starting bundle generation",
		"build_id", output.BuildID,
		"types", requested,
		"output_dir", output.OutputDir,
	)

	run := &pipelineRun{
		registry: b.registry,
		settings: st,
		output:   output,
		done:     make(map[types.PackageType][]result.Artifact),
		active:   make(map[types.PackageType]bool),
	}

	for _, pt := range requested {
		arts, err := run.Resolve(ctx, pt)
		if err != nil {
			output.TotalDuration = time.Since(start)
			code := errors.CodeOf(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return output, errors.Wrap(code, fmt.Sprintf("failed to bundle %s", pt), err)
		}
		output.AddArtifacts(arts...)
	}

	if len(output.Artifacts) > 0 {
		if err := b.finalize(ctx, st, output); err != nil {
			output.TotalDuration = time.Since(start)
			return output, err
		}
	}

	output.TotalDuration = time.Since(start)
	slog.Info("bundle generation complete", "summary", output.Summary())

	return output, nil
}

// finalize writes checksums.txt and manifest.yaml for the produced artifacts.
func (b *DefaultBundler) finalize(ctx context.Context, st *settings.Settings, output *result.Output) error {
	files := make([]string, 0, len(output.Artifacts))
	for _, a := range output.Artifacts {
		if !a.IsDir() {
			files = append(files, a.Path)
		}
	}

	sums, err := checksum.GenerateChecksums(ctx, output.OutputDir, files)
	if err != nil {
		return err
	}
	for i := range output.Artifacts {
		output.Artifacts[i].Checksum = sums[output.Artifacts[i].Path]
	}
	output.ChecksumFile = checksum.GetChecksumFilePath(output.OutputDir)

	path, err := writeManifest(st, output)
	if err != nil {
		return err
	}
	output.ManifestFile = path
	return nil
}

// Manifest describes one pipeline run.
type Manifest struct {
	BuildID     string             `yaml:"build_id"`
	ProductName string             `yaml:"product_name"`
	Version     string             `yaml:"version"`
	Identifier  string             `yaml:"identifier,omitempty"`
	Target      string             `yaml:"target"`
	Mode        string             `yaml:"mode"`
	CreatedAt   string             `yaml:"created_at"`
	Artifacts   []ManifestArtifact `yaml:"artifacts"`
}

// ManifestArtifact is an artifact entry with a path relative to the bundle directory.
type ManifestArtifact struct {
	Path   string            `yaml:"path"`
	Type   types.PackageType `yaml:"type"`
	Size   int64             `yaml:"size_bytes,omitempty"`
	SHA256 string            `yaml:"sha256,omitempty"`
}

func writeManifest(st *settings.Settings, output *result.Output) (string, error) {
	m := Manifest{
		BuildID:     output.BuildID,
		ProductName: st.ProductName(),
		Version:     st.VersionString(),
		Identifier:  st.Identifier(),
		Target:      st.TargetOS() + "/" + st.Arch(),
		Mode:        string(st.Mode()),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Artifacts:   make([]ManifestArtifact, 0, len(output.Artifacts)),
	}
	for _, a := range output.Artifacts {
		rel, err := filepath.Rel(output.OutputDir, a.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = a.Path
		}
		m.Artifacts = append(m.Artifacts, ManifestArtifact{
			Path:   filepath.ToSlash(rel),
			Type:   a.Type,
			Size:   a.Size,
			SHA256: a.Checksum,
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to serialize build manifest", err)
	}

	path := filepath.Join(output.OutputDir, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to write build manifest", err,
			map[string]any{"path": path})
	}

	slog.Debug("build manifest written", "path", path, "artifacts", len(m.Artifacts))
	return path, nil
}
