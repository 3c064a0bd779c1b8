package editor

import (
	"embed"
	"io"
	"io/fs"

	"github.com/goccy/go-json"
	"github.com/valyala/fasttemplate"
)

//go:embed assets/*.css assets/*.js
var assetsFS embed.FS

var (
	editorCSS     = mustAsset("assets/editor.css")
	controlsJS    = mustAsset("assets/controls.js")
	navigationJS  = mustAsset("assets/navigation.js")
	inspectorTmpl = fasttemplate.New(mustAsset("assets/inspector.js"), "[[", "]]")
)

// AssetsFS exposes the overlay stylesheet and scripts, for hosts that serve
// them as static files instead of inlining them.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return assetsFS
	}
	return sub
}

func mustAsset(name string) string {
	data, err := assetsFS.ReadFile(name)
	if err != nil {
		panic("editor: missing embedded asset " + name)
	}
	return string(data)
}

// inspectorScript returns the messaging script bound to the parent frame
// origin. The origin is written as a JSON string literal.
func inspectorScript(origin string) (string, error) {
	if origin == "" {
		origin = "*"
	}
	return inspectorTmpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		switch tag {
		case "origin":
			encoded, err := json.Marshal(origin)
			if err != nil {
				return 0, err
			}
			return w.Write(encoded)
		default:
			return w.Write([]byte("null"))
		}
	})
}
