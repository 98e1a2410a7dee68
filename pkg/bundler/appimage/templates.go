package appimage

import (
	_ "embed"
)

//go:embed templates/build_appimage.sh.tmpl
var buildScriptTemplate string
