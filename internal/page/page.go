// Package page holds an HTML document whose id-addressed elements act as
// display regions.
package page

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/tbckr/statuspane/internal/apperr"
)

// Document is an HTML document that is safe for concurrent use. Writes to the
// same region are not coordinated: the last write wins.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads a full HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Document{root: root}, nil
}

// Skeleton returns a minimal document whose body holds one empty div per id.
func Skeleton(ids ...string) *Document {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"></head><body>")
	for _, id := range ids {
		fmt.Fprintf(&b, "<div id=\"%s\"></div>", html.EscapeString(id))
	}
	b.WriteString("</body></html>")
	// Parsing generated markup cannot fail.
	doc, _ := Parse(strings.NewReader(b.String()))
	return doc
}

// Has reports whether an element with the given id exists.
func (d *Document) Has(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return findByID(d.root, id) != nil
}

// SetInnerHTML replaces the children of the region with the parsed markup.
func (d *Document) SetInnerHTML(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := findByID(d.root, id)
	if n == nil {
		return fmt.Errorf("%w: %q", apperr.ErrRegionNotFound, id)
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("parsing fragment for %q: %w", id, err)
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML returns the serialized children of the region.
func (d *Document) InnerHTML(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := findByID(d.root, id)
	if n == nil {
		return "", false
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", false
		}
	}
	return b.String(), true
}

// Clear empties the region.
func (d *Document) Clear(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := findByID(d.root, id)
	if n == nil {
		return fmt.Errorf("%w: %q", apperr.ErrRegionNotFound, id)
	}
	removeChildren(n)
	return nil
}

// Regions lists every element id in document order.
func (d *Document) Regions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	walk(d.root, func(n *html.Node) bool {
		if id, ok := attr(n, "id"); ok && id != "" {
			ids = append(ids, id)
		}
		return false
	})
	return ids
}

// Render writes the whole document to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// findByID returns the first element in document order carrying id.
func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if v, ok := attr(n, "id"); ok && v == id {
			found = n
			return true
		}
		return false
	})
	return found
}

// walk visits element nodes depth-first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
