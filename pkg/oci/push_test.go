/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"

	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

const testTimestamp = "2025-01-01T00:00:00Z"

// newTestOutput lays out a bundle directory with a disk image, an app
// directory, and the checksum and manifest files.
func newTestOutput(t *testing.T) *result.Output {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "bundle")

	write := func(rel, content string) string {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	write("osx/App.app/Contents/MacOS/app", "binary")
	dmg := write("dmg/App_1.2.0_x64.dmg", "disk image")
	sums := write("checksums.txt", "abc  dmg/App_1.2.0_x64.dmg\n")
	manifest := write("manifest.yaml", "build_id: test\n")

	return &result.Output{
		OutputDir: dir,
		Artifacts: []result.Artifact{
			result.NewArtifact(types.PackageTypeOsxBundle, filepath.Join(dir, "osx", "App.app")),
			result.NewArtifact(types.PackageTypeDmg, dmg),
		},
		ChecksumFile: sums,
		ManifestFile: manifest,
	}
}

func fetchManifest(t *testing.T, store *memory.Store, tag string) ociv1.Manifest {
	t.Helper()
	ctx := context.Background()

	desc, err := store.Resolve(ctx, tag)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", tag, err)
	}
	data, err := content.FetchAll(ctx, store, desc)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	var m ociv1.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}
	return m
}

func TestPublish_ArtifactStructure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	output := newTestOutput(t)

	res, err := publish(ctx, PublishOptions{
		Reference:             &Reference{Registry: "localhost:5000", Repository: "example/app", Tag: "v1"},
		Output:                output,
		Version:               "1.2.0",
		Title:                 "App",
		ReproducibleTimestamp: testTimestamp,
	}, store)
	if err != nil {
		t.Fatalf("publish() error = %v", err)
	}

	if res.Reference != "localhost:5000/example/app:v1" {
		t.Errorf("Reference = %q", res.Reference)
	}
	if res.Layers != 4 {
		t.Errorf("Layers = %d, want 4", res.Layers)
	}

	m := fetchManifest(t, store, "v1")
	if m.ArtifactType != ArtifactType {
		t.Errorf("ArtifactType = %q, want %q", m.ArtifactType, ArtifactType)
	}
	if m.Annotations[ociv1.AnnotationCreated] != testTimestamp {
		t.Errorf("created annotation = %q", m.Annotations[ociv1.AnnotationCreated])
	}
	if m.Annotations["org.opencontainers.image.version"] != "1.2.0" {
		t.Errorf("version annotation = %q", m.Annotations["org.opencontainers.image.version"])
	}

	titles := make(map[string]ociv1.Descriptor, len(m.Layers))
	for _, l := range m.Layers {
		titles[l.Annotations[ociv1.AnnotationTitle]] = l
	}

	app, ok := titles["osx/App.app"]
	if !ok {
		t.Fatalf("app layer missing, layers = %v", titles)
	}
	if app.MediaType != ociv1.MediaTypeImageLayerGzip {
		t.Errorf("app media type = %q", app.MediaType)
	}
	if app.Annotations[AnnotationPackageType] != "osx" {
		t.Errorf("app package type = %q", app.Annotations[AnnotationPackageType])
	}

	dmg, ok := titles["dmg/App_1.2.0_x64.dmg"]
	if !ok {
		t.Fatal("dmg layer missing")
	}
	if dmg.MediaType != "application/vnd.shellpack.dmg" {
		t.Errorf("dmg media type = %q", dmg.MediaType)
	}

	for _, name := range []string{"checksums.txt", "manifest.yaml"} {
		if _, ok := titles[name]; !ok {
			t.Errorf("%s layer missing", name)
		}
	}
}

func TestPublish_DefaultTagFromVersion(t *testing.T) {
	store := memory.New()

	res, err := publish(context.Background(), PublishOptions{
		Reference: &Reference{Registry: "localhost:5000", Repository: "example/app"},
		Output:    newTestOutput(t),
		Version:   "1.2.0+build.3",
	}, store)
	if err != nil {
		t.Fatalf("publish() error = %v", err)
	}
	if res.Reference != "localhost:5000/example/app:1.2.0_build.3" {
		t.Errorf("Reference = %q", res.Reference)
	}
	fetchManifest(t, store, "1.2.0_build.3")
}

func TestPublish_Reproducible(t *testing.T) {
	output := newTestOutput(t)
	opts := PublishOptions{
		Reference:             &Reference{Registry: "localhost:5000", Repository: "example/app", Tag: "v1"},
		Output:                output,
		Version:               "1.2.0",
		ReproducibleTimestamp: testTimestamp,
	}

	first, err := publish(context.Background(), opts, memory.New())
	if err != nil {
		t.Fatalf("first publish() error = %v", err)
	}
	second, err := publish(context.Background(), opts, memory.New())
	if err != nil {
		t.Fatalf("second publish() error = %v", err)
	}
	if first.Digest != second.Digest {
		t.Errorf("digests differ: %s != %s", first.Digest, second.Digest)
	}
}

func TestPublish_Validation(t *testing.T) {
	ref := &Reference{Registry: "localhost:5000", Repository: "example/app", Tag: "v1"}

	tests := []struct {
		name string
		opts PublishOptions
	}{
		{name: "nil reference", opts: PublishOptions{Output: &result.Output{}}},
		{name: "nil output", opts: PublishOptions{Reference: ref}},
		{name: "no artifacts", opts: PublishOptions{Reference: ref, Output: &result.Output{OutputDir: t.TempDir()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := publish(context.Background(), tt.opts, memory.New())
			if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestPublish_ArtifactOutsideBundleDir(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "stray.deb")
	if err := os.WriteFile(outside, []byte("deb"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := publish(context.Background(), PublishOptions{
		Reference: &Reference{Registry: "localhost:5000", Repository: "example/app", Tag: "v1"},
		Output: &result.Output{
			OutputDir: t.TempDir(),
			Artifacts: []result.Artifact{result.NewArtifact(types.PackageTypeDeb, outside)},
		},
	}, memory.New())
	if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestPublish_NilReference(t *testing.T) {
	_, err := Publish(context.Background(), PublishOptions{})
	if !errors.IsCode(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestMediaType(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.msi")
	if err := os.WriteFile(file, []byte("msi"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := MediaType(result.NewArtifact(types.PackageTypeMsi, file)); got != "application/vnd.shellpack.msi" {
		t.Errorf("MediaType(file) = %q", got)
	}
	if got := MediaType(result.NewArtifact(types.PackageTypeOsxBundle, dir)); got != ociv1.MediaTypeImageLayerGzip {
		t.Errorf("MediaType(dir) = %q", got)
	}
}
