package msi

import (
	_ "embed"
)

//go:embed templates/main.wxs.tmpl
var mainWxsTemplate string
