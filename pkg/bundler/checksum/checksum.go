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

package checksum

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// SumFile returns the hex encoded SHA256 of the file at path.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GenerateChecksums writes checksums.txt into bundleDir with one
// "<sha256>  <relative-path>" line per file, in the given order.
// Paths are written relative to bundleDir with forward slashes.
//
// It returns the computed digests keyed by the original file path.
func GenerateChecksums(ctx context.Context, bundleDir string, files []string) (map[string]string, error) {
	sums := make(map[string]string, len(files))
	lines := make([]string, 0, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
		}

		sum, err := SumFile(file)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeIO,
				"failed to read file for checksum", err,
				map[string]any{"path": file})
		}
		sums[file] = sum

		relPath, err := filepath.Rel(bundleDir, file)
		if err != nil {
			// If relative path fails, use absolute path
			relPath = file
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.ToSlash(relPath)))
	}

	if err := os.MkdirAll(bundleDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to create bundle directory", err)
	}

	checksumPath := GetChecksumFilePath(bundleDir)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(checksumPath, []byte(content), 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to write checksums", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", checksumPath,
	)

	return sums, nil
}

// VerifyChecksums re-hashes every entry of bundleDir/checksums.txt and
// reports the first mismatch.
func VerifyChecksums(bundleDir string) error {
	f, err := os.Open(GetChecksumFilePath(bundleDir))
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to open checksums", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		want, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return errors.NewWithContext(errors.ErrCodeIO, "malformed checksum line",
				map[string]any{"line": line})
		}

		path := filepath.FromSlash(rel)
		if !filepath.IsAbs(path) {
			path = filepath.Join(bundleDir, path)
		}
		got, err := SumFile(path)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeIO, "failed to read file for checksum", err,
				map[string]any{"path": path})
		}
		if got != want {
			return errors.NewWithContext(errors.ErrCodeIO, "checksum mismatch",
				map[string]any{"path": rel, "want": want, "got": got})
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to read checksums", err)
	}
	return nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given bundle directory.
func GetChecksumFilePath(bundleDir string) string {
	return filepath.Join(bundleDir, ChecksumFileName)
}
