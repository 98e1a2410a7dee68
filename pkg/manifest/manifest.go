package manifest

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/shellpack/pkg/config"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

// FileName is the generated manifest in the shell directory.
const FileName = "shellpack.manifest.yaml"

// Manifest is the subset of the configuration the native shell compiles in.
type Manifest struct {
	Identifier  string   `yaml:"identifier"`
	ProductName string   `yaml:"productName"`
	Version     string   `yaml:"version"`
	Features    []string `yaml:"features"`
	Plugins     []string `yaml:"plugins"`
}

// Rewriter regenerates the native manifest from the loaded configuration.
type Rewriter struct {
	shellDir string
}

// NewRewriter creates a rewriter writing into shellDir.
func NewRewriter(shellDir string) *Rewriter {
	return &Rewriter{shellDir: shellDir}
}

// Path returns the manifest location.
func (r *Rewriter) Path() string {
	return filepath.Join(r.shellDir, FileName)
}

// Rewrite writes the manifest. The handle is only read, under its lock, so
// the caller must not hold it.
func (r *Rewriter) Rewrite(h *config.Handle) error {
	var m Manifest
	if err := h.View(func(c *config.Config) error {
		m = FromConfig(c)
		return nil
	}); err != nil {
		return err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to serialize manifest", err)
	}

	path := r.Path()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to write manifest", err,
			map[string]any{"path": path})
	}

	slog.Debug("manifest rewritten",
		"path", path,
		"features", len(m.Features),
		"plugins", len(m.Plugins),
	)
	return nil
}

// FromConfig extracts the manifest fields from c.
func FromConfig(c *config.Config) Manifest {
	return Manifest{
		Identifier:  c.App.Bundle.Identifier,
		ProductName: c.Package.ProductName,
		Version:     c.Package.Version,
		Features:    c.EnabledFeatures(),
		Plugins:     c.PluginNames(),
	}
}
