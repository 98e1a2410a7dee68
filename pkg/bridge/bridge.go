package bridge

import (
	_ "embed"
	"strings"
	"text/template"
)

// FileName is the bridging script written into the dist directory.
const FileName = "__shellpack.js"

//go:embed templates/bridge.js.tmpl
var scriptTemplate string

var tmpl = template.Must(template.New(FileName).Parse(scriptTemplate))

// Script renders the bridging script. When global is true the API is also
// exposed as window.shellpack for pages that do not import a client module.
func Script(global bool) string {
	var buf strings.Builder
	// the template has no fallible actions
	_ = tmpl.Execute(&buf, struct{ Global bool }{Global: global})
	return buf.String()
}
