// Package oci publishes bundle artifacts to OCI-compliant registries.
//
// The artifacts of a pipeline run are pushed as a single ORAS artifact
// (OCI Registry As Storage) to any OCI registry: GHCR, Docker Hub, ECR or a
// local registry.
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/example/app:1.2.0")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Publish(ctx, oci.PublishOptions{
//	    Reference: ref,
//	    Output:    output,
//	    Version:   "1.2.0",
//	})
//
// A reference without a tag is published with the version as tag. Build
// metadata separators ('+') are replaced with '_' since tags do not allow them.
//
// # Layout
//
// Every artifact becomes one layer titled by its path relative to the bundle
// directory. File artifacts use the media type
// "application/vnd.shellpack.<type>"; directories such as the macOS app
// bundle are stored as reproducible gzipped tarballs. checksums.txt and
// manifest.yaml are added as layers when present. Each artifact layer carries
// the "dev.shellpack.package-type" annotation.
//
// The manifest uses the OCI 1.1 artifact type
// "application/vnd.shellpack.bundle".
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package. PlainHTTP and
// InsecureTLS support local development registries.
package oci
