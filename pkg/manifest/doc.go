// Package manifest writes shellpack.manifest.yaml next to the shell sources.
//
// The manifest carries the identifier, product name, version, enabled
// features and plugin names so the native build can pick them up without
// parsing the full configuration. Rewrite reads the configuration handle
// with View and never mutates it.
package manifest
