package files

import "github.com/staticd/staticd/pkg/content"

// RenderEntry formats one directory entry as an HTML anchor. Directories
// get a trailing "/" marker in both the link target and the label.
func RenderEntry(e content.Entry) string {
	marker := ""
	if e.IsDir {
		marker = "/"
	}
	name := e.Name + marker
	return `<a href="./` + name + `">` + name + `</a>`
}
