// Package bridge renders the JavaScript bridging script injected into the
// front-end dist directory as __shellpack.js.
//
// The script exposes window.__SHELLPACK__ with invoke, promisified, listen
// and emit on top of window.external.invoke. The wire format used by the
// native side is out of scope; only the script text is produced here.
package bridge
