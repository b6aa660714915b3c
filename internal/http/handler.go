package http

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/staticd/staticd/internal/files"
	"github.com/staticd/staticd/pkg/config"
	"github.com/staticd/staticd/pkg/content"
)

// listDir renders a directory as an HTML listing: a parent-directory link
// first, then one anchor per entry, sorted.
func listDir(ctx context.Context, store content.Store, dir string) ([]byte, error) {
	entries, err := store.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(entries))
	for _, entry := range entries {
		links = append(links, files.RenderEntry(entry))
	}
	sort.Strings(links)

	body := `<a href="./../">&uarr; Parent Directory</a><ul><li>` +
		strings.Join(links, "</li><li>") + "</li></ul>"

	doc := Doc("Directory Listing", fmt.Sprintf("Listing for %s", dir), body)
	return []byte(doc), nil
}

// HandleConnection turns a parsed request into a Response.
//
// Only GET and HEAD are supported. The request path goes through the full
// resolution pipeline (index substitution, percent-decoding, lexical
// normalization, root join) and must pass the traversal guard before the
// store is touched; a path that fails the guard yields a 403 with no
// store access at all. Every outcome, including internal failures, comes
// back as a well-formed Response.
func HandleConnection(ctx context.Context, req *Request, cfg *config.Config, store content.Store) *Response {
	if req.Method != "GET" && req.Method != "HEAD" {
		return ResponseFromStatus(NewStatus(501, "Not Implemented",
			"Server only supports GET and HEAD requests"))
	}

	// The root path maps to the index document before resolution runs.
	reqName := req.FilePath
	if reqName == "/" {
		reqName = cfg.Serve.IndexFile
	} else {
		reqName = strings.TrimPrefix(reqName, "/")
	}

	root := store.Root()
	resolved := files.Resolve(reqName, root)
	if !files.IsWithinRoot(resolved, root) {
		return ResponseFromStatus(NewStatus(403, "Forbidden",
			"Directory traversal is not allowed!"))
	}

	mime := files.GuessMimeType(resolved)

	var body []byte
	var err error

	info, statErr := store.Stat(ctx, resolved)
	if statErr == nil && info.IsDir {
		if !cfg.Serve.ListDir {
			return ResponseFromStatus(NewStatus(403, "Forbidden",
				"Directory traversal is not allowed!"))
		}
		mime = "text/html" // directory listings are HTML
		body, err = listDir(ctx, store, resolved)
	} else {
		body, err = store.Read(ctx, resolved)
	}

	// A missing index document degrades into a listing of the root
	// instead of a 404.
	if err != nil && cfg.Serve.ListDir && reqName == cfg.Serve.IndexFile {
		body, err = listDir(ctx, store, root)
	}

	return NewResponse(StatusFromError(err), mime, body, err)
}
