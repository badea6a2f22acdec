package editor

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose text never counts as post text.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
}

// PlainText returns the visible text of rich text HTML with whitespace collapsed.
func PlainText(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if droppedElements[atom.Lookup(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if droppedElements[atom.Lookup(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

// Markup allowed in a post body. Tags, attributes and URL schemes are all allowlisted.
var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize cleans editor HTML with the post body policy. Scripts, event
// handler attributes, forms, meta tags and non http(s)/mailto URLs are removed.
func Sanitize(content string) string {
	return ugcPolicy.Sanitize(content)
}
