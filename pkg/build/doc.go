/*
Package build runs the shellpack build pipeline for a project.

A project is located by walking up from the project directory to the first
directory holding src-shell with a configuration file. Run then:

 1. loads the configuration, applying the optional merge patch
 2. validates the requested package types (nothing is written before this)
 3. enters the shell directory and exports SHELLPACK_DIR and SHELLPACK_DIST_DIR
 4. rewrites shellpack.manifest.yaml
 5. writes the bridging script into the dist directory
 6. runs build.beforeBuildCommand in the application root
 7. compiles the shell with `go build`
 8. bundles when app.bundle.active is set
 9. publishes to an oci:// reference when one was given

Usage:

	res, err := build.New(build.WithProjectDir(".")).
		Targets([]string{"deb", "appimage"}).
		Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(res.Output.Summary())

The hook line is split with POSIX shell rules: quotes group words and
variables are expanded from the environment. No shell is spawned.
*/
package build
