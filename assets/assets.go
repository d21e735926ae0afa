// Package assets embeds the static files served by the web server.
package assets

import _ "embed"

// Index is the debug viewer page, minified at server startup.
//
//go:embed index.html
var Index []byte
