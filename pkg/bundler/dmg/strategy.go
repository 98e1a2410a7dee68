package dmg

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
	// OutputDirName is the directory under the bundle directory holding the disk image.
	OutputDirName = "dmg"

	// ScriptName is the file name of the disk image tool.
	ScriptName = "bundle_dmg.sh"

	supportDirName = "support"
	verboseHint    = ", try running with --verbose to see command output"
)

// Strategy produces a macOS disk image from the application bundle.
type Strategy struct {
	*internal.BaseStrategy
	runner process.Runner
	env    func() (Environment, error)
}

var _ registry.Strategy = (*Strategy)(nil)

// NewStrategy creates a disk image strategy running bundle_dmg.sh through runner.
func NewStrategy(runner process.Runner) *Strategy {
	return &Strategy{
		BaseStrategy: internal.NewBaseStrategy(types.PackageTypeDmg),
		runner:       runner,
		env:          LoadEnvironment,
	}
}

// Type returns types.PackageTypeDmg.
func (s *Strategy) Type() types.PackageType {
	return types.PackageTypeDmg
}

// Bundle resolves the app bundle, writes the tool scripts into
// <projectOut>/bundle/dmg, runs bundle_dmg.sh next to the app bundle and
// moves the resulting image into the output directory.
func (s *Strategy) Bundle(ctx context.Context, st *settings.Settings, r registry.Resolver) ([]result.Artifact, error) {
	if err := s.CheckContext(ctx); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New(errors.ErrCodeInternal, "disk image bundling requires a resolver")
	}

	start := time.Now()

	deps, err := r.Resolve(ctx, types.PackageTypeOsxBundle)
	if err != nil {
		return nil, err
	}
	app, ok := findApp(deps)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "app bundle strategy produced no .app artifact")
	}

	base := st.PackageBaseName()
	dmgName := base + ".dmg"
	outDir := filepath.Join(st.BundleDirectory(), OutputDirName)
	dmgPath := filepath.Join(outDir, dmgName)
	appDir := filepath.Dir(app.Path)
	appName := filepath.Base(app.Path)

	slog.Debug("generating disk image", "path", dmgPath, "app", app.Path)

	if err := s.PrepareDir(outDir); err != nil {
		return nil, err
	}

	scriptPath := filepath.Join(outDir, ScriptName)
	licensePath := filepath.Join(outDir, supportDirName, "dmg-license.py")
	if err := s.WriteFile(scriptPath, []byte(bundleScript), 0o644); err != nil {
		return nil, err
	}
	if err := s.WriteFile(filepath.Join(outDir, supportDirName, "template.applescript"),
		[]byte(appleScriptTemplate), 0o644); err != nil {
		return nil, err
	}
	if err := s.WriteFile(licensePath, []byte(licenseScript), 0o644); err != nil {
		return nil, err
	}
	for _, p := range []string{scriptPath, licensePath} {
		if err := s.MakeExecutable(p); err != nil {
			return nil, err
		}
	}

	environment, err := s.env()
	if err != nil {
		return nil, err
	}

	opts := ArgsOptions{
		VolumeName:  base,
		AppName:     appName,
		License:     st.License(),
		SkipJenkins: environment.SkipJenkins(),
	}
	if icon, ok := st.IconWithExt(".icns"); ok {
		opts.VolumeIcon = icon
	}

	cmd := process.Command{
		Name:    scriptPath,
		Args:    Args(opts),
		Dir:     appDir,
		Verbose: st.IsVerbose(),
	}

	slog.Info("running " + ScriptName)
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		msg := "error running " + ScriptName
		if !st.IsVerbose() {
			msg += verboseHint
		}
		return nil, errors.Wrap(errors.ErrCodeProcessExecution, msg, err)
	}

	if err := s.Rename(filepath.Join(appDir, dmgName), dmgPath); err != nil {
		return nil, err
	}

	slog.Info("disk image generated",
		"path", dmgPath,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return []result.Artifact{app, result.NewArtifact(types.PackageTypeDmg, dmgPath)}, nil
}

func findApp(arts []result.Artifact) (result.Artifact, bool) {
	for _, a := range arts {
		if a.Type == types.PackageTypeOsxBundle && strings.HasSuffix(a.Path, ".app") {
			return a, true
		}
	}
	return result.Artifact{}, false
}
