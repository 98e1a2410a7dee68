// Package deb produces Debian packages.
//
// The package tree is staged under
// <projectOut>/bundle/deb/<binary>_<version>_<debarch>/data:
//
//	data/
//	├── DEBIAN/control
//	├── DEBIAN/md5sums
//	└── usr/
//	    ├── bin/<binary>
//	    └── share/
//	        ├── applications/<binary>.desktop
//	        └── pixmaps/<binary>.png
//
// and built with dpkg-deb --build --root-owner-group. Architectures follow
// Debian naming, so x86_64 becomes amd64 and aarch64 becomes arm64.
package deb
