package appimage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/NVIDIA/shellpack/pkg/bundler/deb"
	"github.com/NVIDIA/shellpack/pkg/bundler/internal"
	"github.com/NVIDIA/shellpack/pkg/bundler/registry"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

const (
	// OutputDirName is the directory under the bundle directory holding the AppImage.
	OutputDirName = "appimage"

	// ScriptName is the file name of the generated build script.
	ScriptName = "build_appimage.sh"
)

// Strategy produces an AppImage from the staged Debian package tree.
type Strategy struct {
	*internal.BaseStrategy
	runner process.Runner
}

var _ registry.Strategy = (*Strategy)(nil)

// NewStrategy creates an AppImage strategy running the build script through runner.
func NewStrategy(runner process.Runner) *Strategy {
	return &Strategy{
		BaseStrategy: internal.NewBaseStrategy(types.PackageTypeAppImage),
		runner:       runner,
	}
}

// Type returns types.PackageTypeAppImage.
func (s *Strategy) Type() types.PackageType {
	return types.PackageTypeAppImage
}

type scriptData struct {
	Arch       string
	AppDirName string
	DataDir    string
	BinaryName string
	OutputName string
	HasIcon    bool
}

// Bundle resolves the Debian package, renders build_appimage.sh into
// <projectOut>/bundle/appimage and runs it with bash.
func (s *Strategy) Bundle(ctx context.Context, st *settings.Settings, r registry.Resolver) ([]result.Artifact, error) {
	if err := s.CheckContext(ctx); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New(errors.ErrCodeInternal, "AppImage bundling requires a resolver")
	}

	start := time.Now()

	if _, err := r.Resolve(ctx, types.PackageTypeDeb); err != nil {
		return nil, err
	}

	outDir := filepath.Join(st.BundleDirectory(), OutputDirName)
	outName := st.PackageBaseName() + ".AppImage"
	outPath := filepath.Join(outDir, outName)
	scriptPath := filepath.Join(outDir, ScriptName)

	slog.Debug("generating AppImage", "path", outPath)

	if err := s.PrepareDir(outDir); err != nil {
		return nil, err
	}

	_, hasIcon := st.IconWithExt(".png")
	data := scriptData{
		Arch:       st.Arch(),
		AppDirName: st.BinaryName() + ".AppDir",
		DataDir:    deb.DataDir(st),
		BinaryName: st.BinaryName(),
		OutputName: outName,
		HasIcon:    hasIcon,
	}
	if err := s.RenderAndWriteTemplate(buildScriptTemplate, ScriptName, scriptPath, data, 0o644); err != nil {
		return nil, err
	}
	if err := s.MakeExecutable(scriptPath); err != nil {
		return nil, err
	}

	cmd := process.Command{
		Name:    "bash",
		Args:    []string{scriptPath},
		Dir:     outDir,
		Verbose: st.IsVerbose(),
	}
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProcessExecution, "error running "+ScriptName, err)
	}

	slog.Info("AppImage generated",
		"path", outPath,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return []result.Artifact{result.NewArtifact(types.PackageTypeAppImage, outPath)}, nil
}
