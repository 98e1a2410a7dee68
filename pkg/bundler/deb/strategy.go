package deb

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
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
	// OutputDirName is the directory under the bundle directory holding Debian packages.
	OutputDirName = "deb"

	defaultMaintainer = "Unknown"
)

// Strategy produces a Debian package.
type Strategy struct {
	*internal.BaseStrategy
	runner process.Runner
}

var _ registry.Strategy = (*Strategy)(nil)

// NewStrategy creates a Debian package strategy running dpkg-deb through runner.
func NewStrategy(runner process.Runner) *Strategy {
	return &Strategy{
		BaseStrategy: internal.NewBaseStrategy(types.PackageTypeDeb),
		runner:       runner,
	}
}

// Type returns types.PackageTypeDeb.
func (s *Strategy) Type() types.PackageType {
	return types.PackageTypeDeb
}

// PackageName returns <binary>_<version>_<debarch>.
func PackageName(st *settings.Settings) string {
	return st.BinaryName() + "_" + st.VersionString() + "_" + st.DebArch()
}

// StagingDir returns the directory holding the staged package tree.
func StagingDir(st *settings.Settings) string {
	return filepath.Join(st.BundleDirectory(), OutputDirName, PackageName(st))
}

// DataDir returns the package root that becomes the installed filesystem.
// The AppImage strategy reuses it as the AppDir source.
func DataDir(st *settings.Settings) string {
	return filepath.Join(StagingDir(st), "data")
}

type controlData struct {
	Package          string
	Version          string
	Architecture     string
	InstalledSize    int64
	Maintainer       string
	Depends          string
	ShortDescription string
	LongDescription  []string
}

type desktopData struct {
	Categories string
	Comment    string
	Exec       string
	Icon       string
	Name       string
}

// Bundle stages the package tree and builds the .deb with dpkg-deb.
func (s *Strategy) Bundle(ctx context.Context, st *settings.Settings, _ registry.Resolver) ([]result.Artifact, error) {
	if err := s.CheckContext(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	staging := StagingDir(st)
	data := DataDir(st)
	debPath := filepath.Join(st.BundleDirectory(), OutputDirName, PackageName(st)+".deb")

	slog.Debug("generating debian package", "path", debPath, "staging", staging)

	if err := s.PrepareDir(staging); err != nil {
		return nil, err
	}

	bin := st.BinaryName()
	if err := s.CopyFile(st.BinaryPath(), filepath.Join(data, "usr", "bin", bin), 0o755); err != nil {
		return nil, err
	}

	if icon, ok := st.IconWithExt(".png"); ok {
		if err := s.CopyFile(icon, filepath.Join(data, "usr", "share", "pixmaps", bin+".png"), 0o644); err != nil {
			return nil, err
		}
	}

	desktop := desktopData{
		Categories: st.Category(),
		Comment:    st.ShortDescription(),
		Exec:       bin,
		Icon:       bin,
		Name:       st.ProductName(),
	}
	if err := s.RenderAndWriteTemplate(desktopTemplate, "desktop",
		filepath.Join(data, "usr", "share", "applications", bin+".desktop"), desktop, 0o644); err != nil {
		return nil, err
	}

	sums, size, err := md5sums(data)
	if err != nil {
		return nil, err
	}

	control := controlData{
		Package:          strings.ToLower(bin),
		Version:          st.Version().Debian(),
		Architecture:     st.DebArch(),
		InstalledSize:    (size + 1023) / 1024,
		Maintainer:       defaultMaintainer,
		Depends:          strings.Join(st.DebDepends(), ", "),
		ShortDescription: st.ShortDescription(),
		LongDescription:  descriptionLines(st.LongDescription()),
	}
	if control.ShortDescription == "" {
		control.ShortDescription = st.ProductName()
	}
	if err := s.RenderAndWriteTemplate(controlTemplate, "control",
		filepath.Join(data, "DEBIAN", "control"), control, 0o644); err != nil {
		return nil, err
	}
	if err := s.WriteFile(filepath.Join(data, "DEBIAN", "md5sums"), []byte(sums), 0o644); err != nil {
		return nil, err
	}

	cmd := process.Command{
		Name:    "dpkg-deb",
		Args:    []string{"--build", "--root-owner-group", data, debPath},
		Verbose: st.IsVerbose(),
	}
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProcessExecution, "failed to build debian package", err)
	}

	slog.Info("debian package generated",
		"path", debPath,
		"installed_size_kb", control.InstalledSize,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return []result.Artifact{result.NewArtifact(types.PackageTypeDeb, debPath)}, nil
}

// md5sums hashes every regular file under root outside DEBIAN and returns
// the md5sums file content with paths sorted, plus the total size in bytes.
func md5sums(root string) (string, int64, error) {
	type entry struct{ rel, sum string }
	var entries []entry
	var total int64

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel == "DEBIAN" {
				return filepath.SkipDir
			}
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		h := md5.New()
		n, err := io.Copy(h, f)
		if err != nil {
			return err
		}
		total += n
		entries = append(entries, entry{rel: filepath.ToSlash(rel), sum: hex.EncodeToString(h.Sum(nil))})
		return nil
	})
	if err != nil {
		return "", 0, errors.WrapWithContext(errors.ErrCodeIO, "failed to compute md5sums", err,
			map[string]any{"path": root})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s\n", e.sum, e.rel)
	}
	return b.String(), total, nil
}

// descriptionLines formats a long description as control file continuation
// lines. Blank lines become ".".
func descriptionLines(long string) []string {
	long = strings.TrimSpace(long)
	if long == "" {
		return nil
	}
	lines := strings.Split(long, "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if l == "" {
			l = "."
		}
		lines[i] = l
	}
	return lines
}
