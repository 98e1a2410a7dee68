/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package oci

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/defaults"
	"github.com/NVIDIA/shellpack/pkg/errors"
)

const (
	// ArtifactType is the manifest artifact type of a published bundle.
	ArtifactType = "application/vnd.shellpack.bundle"

	// AnnotationPackageType records the package type of a layer.
	AnnotationPackageType = "dev.shellpack.package-type"

	mediaTypePrefix = "application/vnd.shellpack."

	mediaTypeChecksums = "text/plain"
	mediaTypeManifest  = "application/yaml"
)

// PublishOptions configures a bundle publish.
type PublishOptions struct {
	// Reference is the target registry reference. A missing tag defaults to Version.
	Reference *Reference
	// Output is the pipeline output whose artifacts are pushed.
	Output *result.Output
	// Version is used for the default tag and the version annotation.
	Version string
	// Title is the image title annotation, usually the product name.
	Title string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// ReproducibleTimestamp sets a fixed created annotation.
	ReproducibleTimestamp string
}

// PublishResult contains the result of a successful publish.
type PublishResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// Layers is the number of pushed layers.
	Layers int
}

// Publish pushes the artifacts of a pipeline run to an OCI registry using ORAS.
// Docker credential helpers supply authentication.
func Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	if opts.Reference == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "publish reference is required")
	}

	repo, err := remote.NewRepository(opts.Reference.Registry + "/" + opts.Reference.Repository)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaults.PublishTimeout)
		defer cancel()
	}

	return publish(ctx, opts, repo)
}

// publish packs the artifacts into a local file store and copies the tagged
// manifest to dst.
func publish(ctx context.Context, opts PublishOptions, dst oras.Target) (*PublishResult, error) {
	if opts.Reference == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "publish reference is required")
	}
	if opts.Output == nil || len(opts.Output.Artifacts) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no artifacts to publish")
	}

	ref := opts.Reference
	if ref.Tag == "" {
		ref = ref.WithTag(DefaultTag(opts.Version))
	}

	root, err := filepath.Abs(opts.Output.OutputDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to resolve bundle directory", err)
	}

	fs, err := file.New(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic for reproducible builds
	fs.TarReproducible = true

	layers, err := addLayers(ctx, fs, root, opts.Output)
	if err != nil {
		return nil, err
	}

	packOpts := oras.PackManifestOptions{
		Layers:              layers,
		ManifestAnnotations: annotations(opts),
	}
	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to pack manifest", err)
	}

	if err := fs.Tag(ctx, manifestDesc, ref.Tag); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to tag manifest in local store", err)
	}

	slog.Info("publishing bundle",
		"reference", ref.ImageReference(),
		"layers", len(layers),
	)

	desc, err := oras.Copy(ctx, fs, ref.Tag, dst, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to push artifact to registry", err,
			map[string]any{"reference": ref.ImageReference()})
	}

	slog.Info("bundle published",
		"reference", ref.ImageReference(),
		"digest", desc.Digest.String(),
	)

	return &PublishResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
		Layers:    len(layers),
	}, nil
}

// addLayers adds every artifact plus the checksum and manifest files as
// layers named by their path relative to root.
func addLayers(ctx context.Context, fs *file.Store, root string, output *result.Output) ([]ociv1.Descriptor, error) {
	layers := make([]ociv1.Descriptor, 0, len(output.Artifacts)+2)

	add := func(path, mediaType, packageType string) error {
		name, err := layerName(root, path)
		if err != nil {
			return err
		}
		desc, err := fs.Add(ctx, name, mediaType, path)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeIO, "failed to add artifact to store", err,
				map[string]any{"path": path})
		}
		if packageType != "" {
			if desc.Annotations == nil {
				desc.Annotations = map[string]string{}
			}
			desc.Annotations[AnnotationPackageType] = packageType
		}
		layers = append(layers, desc)
		return nil
	}

	for _, a := range output.Artifacts {
		if err := add(a.Path, MediaType(a), a.Type.String()); err != nil {
			return nil, err
		}
	}
	if output.ChecksumFile != "" {
		if err := add(output.ChecksumFile, mediaTypeChecksums, ""); err != nil {
			return nil, err
		}
	}
	if output.ManifestFile != "" {
		if err := add(output.ManifestFile, mediaTypeManifest, ""); err != nil {
			return nil, err
		}
	}
	return layers, nil
}

// MediaType returns the layer media type of an artifact. Directories are
// stored as gzipped tarballs.
func MediaType(a result.Artifact) string {
	if a.IsDir() {
		return ociv1.MediaTypeImageLayerGzip
	}
	return mediaTypePrefix + a.Type.String()
}

func layerName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"artifact is outside the bundle directory",
			map[string]any{"path": path, "bundle_dir": root})
	}
	return filepath.ToSlash(rel), nil
}

func annotations(opts PublishOptions) map[string]string {
	a := map[string]string{
		"org.opencontainers.image.version": opts.Version,
	}
	if opts.Title != "" {
		a[ociv1.AnnotationTitle] = opts.Title
	}
	if opts.ReproducibleTimestamp != "" {
		a[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}
	return a
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}).DialContext
	transport.TLSHandshakeTimeout = defaults.HTTPTLSHandshakeTimeout
	transport.ResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout
	transport.IdleConnTimeout = defaults.HTTPIdleConnTimeout
	transport.ExpectContinueTimeout = defaults.HTTPExpectContinueTimeout
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
