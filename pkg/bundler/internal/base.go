package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

// BaseStrategy provides common file operations for strategy implementations.
// Every failure is returned as a StructuredError so the pipeline can report
// a stable code.
type BaseStrategy struct {
	Type types.PackageType
}

// NewBaseStrategy creates a helper for the given package type.
func NewBaseStrategy(pt types.PackageType) *BaseStrategy {
	return &BaseStrategy{Type: pt}
}

// PrepareDir removes dir when present and recreates it empty.
func (b *BaseStrategy) PrepareDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to remove output directory", err,
			map[string]any{"path": dir})
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create output directory", err,
			map[string]any{"path": dir})
	}

	slog.Debug("output directory prepared", "type", b.Type, "path", dir)
	return nil
}

// MkdirAll creates dir and any missing parents.
func (b *BaseStrategy) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create directory", err,
			map[string]any{"path": dir})
	}
	return nil
}

// WriteFile writes content to path, creating parent directories.
func (b *BaseStrategy) WriteFile(path string, content []byte, perm os.FileMode) error {
	if err := b.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, perm); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to write file", err,
			map[string]any{"path": path})
	}

	slog.Debug("file written",
		"type", b.Type,
		"path", path,
		"size_bytes", len(content),
		"permissions", perm,
	)
	return nil
}

// RenderTemplate renders a text template with the given data.
func (b *BaseStrategy) RenderTemplate(tmplContent, name string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to parse template %s", name), err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to execute template %s", name), err)
	}

	return buf.String(), nil
}

// RenderAndWriteTemplate renders a template and writes it to outputPath.
func (b *BaseStrategy) RenderAndWriteTemplate(tmplContent, name, outputPath string, data any, perm os.FileMode) error {
	content, err := b.RenderTemplate(tmplContent, name, data)
	if err != nil {
		return err
	}
	return b.WriteFile(outputPath, []byte(content), perm)
}

// MakeExecutable sets 0755 permissions on path.
func (b *BaseStrategy) MakeExecutable(path string) error {
	if err := os.Chmod(path, 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to make %s executable", filepath.Base(path)), err,
			map[string]any{"path": path})
	}

	slog.Debug("file made executable", "path", path)
	return nil
}

// CopyFile copies src to dst with the given permissions, creating parent directories.
func (b *BaseStrategy) CopyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to open source file", err,
			map[string]any{"path": src})
	}
	defer in.Close()

	if err := b.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to create destination file", err,
			map[string]any{"path": dst})
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to copy file", err,
			map[string]any{"src": src, "dst": dst})
	}
	if err := out.Close(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to close destination file", err,
			map[string]any{"path": dst})
	}
	return nil
}

// Rename moves src to dst, creating the destination's parent directory.
func (b *BaseStrategy) Rename(src, dst string) error {
	if err := b.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO, "failed to move artifact", err,
			map[string]any{"src": src, "dst": dst})
	}
	return nil
}

// CheckContext returns an error when ctx has been canceled.
func (b *BaseStrategy) CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeInternal,
			fmt.Sprintf("%s bundling canceled", b.Type), ctx.Err())
	default:
		return nil
	}
}
