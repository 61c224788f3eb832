package render

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// Document is a parsed host page that rendered fragments get mounted into.
type Document struct {
	root *html.Node
}

func ParseDocument(page []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}
	return &Document{root: root}, nil
}

// Mount replaces the children of the element whose id is containerID
// with fragment. It reports false, and leaves the page untouched, when
// no such element exists.
func (d *Document) Mount(containerID string, fragment []byte) (bool, error) {
	target := findByID(d.root, containerID)
	if target == nil {
		return false, nil
	}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), target)
	if err != nil {
		return false, fmt.Errorf("parse fragment for #%s: %w", containerID, err)
	}
	for c := target.FirstChild; c != nil; {
		next := c.NextSibling
		target.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		target.AppendChild(n)
	}
	return true, nil
}

func (d *Document) Has(id string) bool {
	return findByID(d.root, id) != nil
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func findByID(n *html.Node, id string) *html.Node {
	if id == "" || n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// ReloadScript is appended to custom host pages while serving.
const ReloadScript = `<script>new EventSource("/dev/events").onmessage = function (e) { if (e.data === "reload") location.reload(); };</script>`

// AppendTo appends fragment to the first element named tag.
func (d *Document) AppendTo(tag string, fragment []byte) (bool, error) {
	target := findByTag(d.root, tag)
	if target == nil {
		return false, nil
	}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), target)
	if err != nil {
		return false, fmt.Errorf("parse fragment for <%s>: %w", tag, err)
	}
	for _, n := range nodes {
		target.AppendChild(n)
	}
	return true, nil
}

func findByTag(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}
