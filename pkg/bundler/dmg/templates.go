package dmg

import (
	_ "embed"
)

var (
	//go:embed templates/bundle_dmg.sh
	bundleScript string

	//go:embed templates/support/template.applescript
	appleScriptTemplate string

	//go:embed templates/support/dmg-license.py
	licenseScript string
)
