package msi

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/shellpack/pkg/bundler/internal"
	"github.com/NVIDIA/shellpack/pkg/bundler/registry"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

const (
	// OutputDirName is the directory under the bundle directory holding the installer.
	OutputDirName = "msi"

	sourceName = "main.wxs"
	objectName = "main.wixobj"
)

// Strategy produces a Windows Installer package with the WiX toolset.
type Strategy struct {
	*internal.BaseStrategy
	runner process.Runner
	env    func() (Environment, error)
}

var _ registry.Strategy = (*Strategy)(nil)

// NewStrategy creates an MSI strategy running candle and light through runner.
func NewStrategy(runner process.Runner) *Strategy {
	return &Strategy{
		BaseStrategy: internal.NewBaseStrategy(types.PackageTypeMsi),
		runner:       runner,
		env:          LoadEnvironment,
	}
}

// Type returns types.PackageTypeMsi.
func (s *Strategy) Type() types.PackageType {
	return types.PackageTypeMsi
}

// UpgradeCode derives a stable upgrade code from the bundle identifier so
// every version of the product upgrades the previous one.
func UpgradeCode(identifier string) string {
	return strings.ToUpper(uuid.NewSHA1(uuid.NameSpaceDNS, []byte(identifier)).String())
}

// Manufacturer derives a display name from a reverse-DNS identifier:
// "com.example.app" becomes "Example".
func Manufacturer(identifier, fallback string) string {
	parts := strings.Split(identifier, ".")
	name := fallback
	if len(parts) >= 2 && parts[1] != "" {
		name = parts[1]
	}
	return cases.Title(language.English).String(name)
}

type wxsData struct {
	ProductName        string
	Manufacturer       string
	UpgradeCode        string
	Version            string
	IconPath           string
	License            string
	Description        string
	BinaryFileName     string
	BinaryPath         string
	ProgramFilesFolder string
	Win64              string
}

// Bundle renders main.wxs and runs candle then light, producing
// <projectOut>/bundle/msi/<base>.msi.
func (s *Strategy) Bundle(ctx context.Context, st *settings.Settings, _ registry.Resolver) ([]result.Artifact, error) {
	if err := s.CheckContext(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	outDir := filepath.Join(st.BundleDirectory(), OutputDirName)
	msiName := st.PackageBaseName() + ".msi"
	msiPath := filepath.Join(outDir, msiName)

	slog.Debug("generating windows installer", "path", msiPath)

	if strings.TrimSpace(st.Identifier()) == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"app.bundle.identifier is required to derive the MSI upgrade code")
	}

	environment, err := s.env()
	if err != nil {
		return nil, err
	}

	if err := s.PrepareDir(outDir); err != nil {
		return nil, err
	}

	data := wxsData{
		ProductName:        st.ProductName(),
		Manufacturer:       Manufacturer(st.Identifier(), st.ProductName()),
		UpgradeCode:        UpgradeCode(st.Identifier()),
		Version:            st.Version().MSI(),
		License:            st.License(),
		Description:        st.ShortDescription(),
		BinaryFileName:     filepath.Base(st.BinaryPath()),
		BinaryPath:         st.BinaryPath(),
		ProgramFilesFolder: "ProgramFilesFolder",
		Win64:              "no",
	}
	if icon, ok := st.IconWithExt(".ico"); ok {
		data.IconPath = icon
	}
	arch := wixArch(st.Arch())
	if arch == "x64" || arch == "arm64" {
		data.ProgramFilesFolder = "ProgramFiles64Folder"
		data.Win64 = "yes"
	}

	if err := s.RenderAndWriteTemplate(mainWxsTemplate, sourceName,
		filepath.Join(outDir, sourceName), data, 0o644); err != nil {
		return nil, err
	}

	steps := []process.Command{
		{
			Name: environment.Tool("candle"),
			Args: []string{"-nologo", "-arch", arch, "-out", objectName, sourceName},
		},
		{
			Name: environment.Tool("light"),
			Args: []string{"-nologo", "-ext", "WixUIExtension", "-out", msiName, objectName},
		},
	}
	for _, cmd := range steps {
		cmd.Dir = outDir
		cmd.Verbose = st.IsVerbose()
		if _, err := s.runner.Run(ctx, cmd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeProcessExecution,
				"error running "+filepath.Base(cmd.Name), err)
		}
	}

	slog.Info("windows installer generated",
		"path", msiPath,
		"version", data.Version,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return []result.Artifact{result.NewArtifact(types.PackageTypeMsi, msiPath)}, nil
}

func wixArch(arch string) string {
	switch arch {
	case settings.ArchX86_64:
		return "x64"
	case settings.ArchAarch64:
		return "arm64"
	default:
		return "x86"
	}
}
