// Package osx produces macOS application bundles.
//
// The bundle is written to <projectOut>/bundle/osx/<Product>.app:
//
//	<Product>.app/
//	└── Contents/
//	    ├── Info.plist
//	    ├── MacOS/<binary>
//	    └── Resources/<binary>.icns
//
// The directory is removed and recreated on every run. When
// app.bundle.osx.signingIdentity is set the bundle is signed with
// codesign --force --deep.
package osx
