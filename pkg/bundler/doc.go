/*
Package bundler turns a compiled shell binary into distributable packages.

The pipeline runs one packaging strategy per requested package type and
collects the produced artifacts:

	b := bundler.New()
	output, err := b.Make(ctx, st)
	if err != nil {
		return err
	}
	fmt.Println(output.Summary())

# Architecture

  - Registry: a closed set of strategies keyed by types.PackageType, see
    DefaultRegistry
  - Strategy: produces the artifacts of one package type
  - Resolver: lets a strategy run a dependency inside the current run
  - Functional Options: WithRegistry and WithRunner configure DefaultBundler

# Package Types

  - osx: macOS application bundle (.app)
  - dmg: macOS disk image, depends on osx
  - deb: Debian package
  - appimage: Linux AppImage, depends on deb
  - msi: Windows installer built with WiX

When settings request no types, the platform defaults are used: osx and dmg
on darwin, deb and appimage on linux, msi on windows. An explicitly empty
list disables bundling.

# Dependencies

The disk image needs the app bundle and the AppImage reuses the staged
Debian tree. A dependent strategy calls Resolve instead of building the
dependency itself:

	apps, err := r.Resolve(ctx, types.PackageTypeOsxBundle)

Resolution is memoized per Make call, so requesting both osx and dmg runs
the app bundle strategy once. A cycle between strategies is reported as an
error.

# Failure Handling

The first failing strategy stops the run. Make returns the partial output
together with the originating error; artifacts already written stay on disk.

# Output

After a successful run two files are written to <projectOut>/bundle:

  - checksums.txt: SHA256 of every file artifact, sha256sum compatible
  - manifest.yaml: build ID, product, version, target and artifacts

# Metrics

Strategy durations, outcomes and artifact counts are exported through the
default Prometheus registry:

  - shellpack_bundle_strategy_duration_seconds
  - shellpack_bundle_strategy_runs_total
  - shellpack_bundle_artifacts_total
*/
package bundler
