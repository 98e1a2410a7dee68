package osx

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bundler/internal"
	"github.com/NVIDIA/shellpack/pkg/bundler/registry"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

const (
	// OutputDirName is the directory under the bundle directory holding .app bundles.
	OutputDirName = "osx"

	categoryPrefix = "public.app-category."
)

// Strategy produces a macOS application bundle.
type Strategy struct {
	*internal.BaseStrategy
	runner process.Runner
}

var _ registry.Strategy = (*Strategy)(nil)

// NewStrategy creates an app bundle strategy running external tools through runner.
func NewStrategy(runner process.Runner) *Strategy {
	return &Strategy{
		BaseStrategy: internal.NewBaseStrategy(types.PackageTypeOsxBundle),
		runner:       runner,
	}
}

// Type returns types.PackageTypeOsxBundle.
func (s *Strategy) Type() types.PackageType {
	return types.PackageTypeOsxBundle
}

// AppPath returns the location of the .app bundle for the given settings.
func AppPath(st *settings.Settings) string {
	return filepath.Join(st.BundleDirectory(), OutputDirName, st.ProductName()+".app")
}

// plistData holds the values rendered into Info.plist.
type plistData struct {
	ProductName          string
	BinaryName           string
	Identifier           string
	Version              string
	BuildVersion         string
	IconFile             string
	Category             string
	MinimumSystemVersion string
	Copyright            string
}

// Bundle lays out <Product>.app with Info.plist, the binary and icons, and
// signs it when a signing identity is configured.
func (s *Strategy) Bundle(ctx context.Context, st *settings.Settings, _ registry.Resolver) ([]result.Artifact, error) {
	if err := s.CheckContext(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	appPath := AppPath(st)
	contents := filepath.Join(appPath, "Contents")

	slog.Debug("generating app bundle", "path", appPath)

	if err := s.PrepareDir(appPath); err != nil {
		return nil, err
	}

	data := plistData{
		ProductName:          st.ProductName(),
		BinaryName:           st.BinaryName(),
		Identifier:           st.Identifier(),
		Version:              st.Version().String(),
		BuildVersion:         st.VersionString(),
		Category:             appCategory(st.Category()),
		MinimumSystemVersion: st.MinimumSystemVersion(),
		Copyright:            st.Copyright(),
	}

	if icon, ok := st.IconWithExt(".icns"); ok {
		data.IconFile = st.BinaryName() + ".icns"
		if err := s.CopyFile(icon, filepath.Join(contents, "Resources", data.IconFile), 0o644); err != nil {
			return nil, err
		}
	}

	if err := s.RenderAndWriteTemplate(infoPlistTemplate, "Info.plist",
		filepath.Join(contents, "Info.plist"), data, 0o644); err != nil {
		return nil, err
	}

	if err := s.CopyFile(st.BinaryPath(), filepath.Join(contents, "MacOS", st.BinaryName()), 0o755); err != nil {
		return nil, err
	}

	if id := st.SigningIdentity(); id != "" {
		if err := s.sign(ctx, st, appPath, id); err != nil {
			return nil, err
		}
	}

	slog.Info("app bundle generated",
		"path", appPath,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return []result.Artifact{result.NewArtifact(types.PackageTypeOsxBundle, appPath)}, nil
}

func (s *Strategy) sign(ctx context.Context, st *settings.Settings, appPath, identity string) error {
	cmd := process.Command{
		Name:    "codesign",
		Args:    []string{"--force", "--deep", "-s", identity, appPath},
		Verbose: st.IsVerbose(),
	}
	slog.Debug("signing app bundle", "identity", identity)

	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return errors.Wrap(errors.ErrCodeProcessExecution, "failed to sign app bundle", err)
	}
	return nil
}

// appCategory maps a free-form category such as "Developer Tool" to the
// Launch Services identifier "public.app-category.developer-tool".
func appCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" || strings.HasPrefix(category, categoryPrefix) {
		return category
	}
	return categoryPrefix + strings.ReplaceAll(strings.ToLower(category), " ", "-")
}
