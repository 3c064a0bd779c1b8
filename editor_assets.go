package storetheme

import (
	"io/fs"

	"github.com/goliatone/go-storetheme/pkg/editor"
)

// EditorAssetsFS exposes the editor overlay stylesheet and scripts so hosts
// can serve them as static files.
//
// Typical mount:
//
//	mux.Handle("/editor/",
//	  http.StripPrefix("/editor/",
//	    http.FileServerFS(storetheme.EditorAssetsFS()),
//	  ),
//	)
func EditorAssetsFS() fs.FS {
	return editor.AssetsFS()
}
