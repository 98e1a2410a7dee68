package osx

import (
	_ "embed"
)

//go:embed templates/Info.plist.tmpl
var infoPlistTemplate string
