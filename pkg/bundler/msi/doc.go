// Package msi produces Windows Installer packages with the WiX toolset.
//
// main.wxs is rendered into <projectOut>/bundle/msi, compiled with candle
// and linked with light. The tools are located through the WIX environment
// variable set by the WiX installer.
//
// The upgrade code is a name-based UUID of the bundle identifier, so it is
// stable across versions. ProductVersion only accepts numeric fields, so
// the version is rendered with major and minor capped at 255 and the build
// field at 65535.
package msi
