// Package appimage produces AppImage bundles.
//
// The strategy depends on the Debian package: it resolves types.PackageTypeDeb
// and copies the staged usr/ tree into an AppDir. build_appimage.sh is
// rendered into <projectOut>/bundle/appimage and run with bash, producing
// <binary>_<version>_<arch>.AppImage next to it.
package appimage
