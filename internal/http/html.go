package http

import "fmt"

// Doc renders the shared HTML document used for error pages and directory
// listings: title, a lead heading and a paragraph of content.
func Doc(title, lead any, content string) string {
	return fmt.Sprintf(
		"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>%v</title></head><body><h1>%v</h1><p>%s</p></body></html>\n",
		title, lead, content,
	)
}
