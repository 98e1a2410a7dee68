package deb

import (
	_ "embed"
)

var (
	//go:embed templates/control.tmpl
	controlTemplate string

	//go:embed templates/desktop.tmpl
	desktopTemplate string
)
