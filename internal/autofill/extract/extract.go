// Package extract flattens captured UI snapshots into the normalized
// field list the classifier consumes. Two input shapes are supported:
// raw node dumps produced by a host-side traversal, and plain HTML
// documents for offline analysis.
package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/fillscope/fillscope-cli/internal/autofill/fields"
)

// Form is one flattened, origin-annotated snapshot ready for
// classification. Ignored holds handles of nodes that consumed a
// document-order index but are not classifiable; they matter for
// adjacency only.
type Form struct {
	Fields  []*fields.Field
	Ignored []string
}

// FromNodes normalizes a traversal's node list in order. The slice order
// must reflect a single consistent document-order traversal; indexes are
// assigned from it.
func FromNodes(nodes []fields.Node) Form {
	var form Form
	for i, n := range nodes {
		f, ok := fields.New(n, i)
		if !ok {
			form.Ignored = append(form.Ignored, n.Handle)
			continue
		}
		form.Fields = append(form.Fields, f)
	}
	return form
}

// FromHTML parses an HTML document and yields its input fields in
// document order. The origin argument annotates every extracted field;
// static HTML carries no per-frame origin information, so callers
// analyzing multi-frame captures should extract each frame separately
// with its own origin.
func FromHTML(r io.Reader, origin string) (Form, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Form{}, fmt.Errorf("parsing html: %w", err)
	}

	labels := labelTexts(doc)

	var nodes []fields.Node
	seq := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			node := inputNode(n, labels, origin, seq)
			seq++
			nodes = append(nodes, node)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return FromNodes(nodes), nil
}

// inputNode converts one <input> element into a raw node record.
func inputNode(n *html.Node, labels map[string]string, origin string, seq int) fields.Node {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	handle := attrs["id"]
	if handle == "" {
		handle = attrs["name"]
	}
	if handle == "" {
		handle = fmt.Sprintf("input-%d", seq)
	}

	hintText := attrs["placeholder"]
	if v := attrs["aria-label"]; hintText == "" && v != "" {
		hintText = v
	}
	if v := labels[attrs["id"]]; v != "" {
		if hintText != "" {
			hintText += " " + v
		} else {
			hintText = v
		}
	}

	_, hiddenAttr := attrs["hidden"]
	visible := !hiddenAttr &&
		attrs["type"] != "hidden" &&
		!strings.Contains(strings.ReplaceAll(attrs["style"], " ", ""), "display:none")

	_, focused := attrs["autofocus"]

	return fields.Node{
		Handle:         handle,
		HTMLTag:        "input",
		HTMLAttributes: attrs,
		HintText:       hintText,
		Visible:        visible,
		Focused:        focused,
		Origin:         origin,
	}
}

// labelTexts maps input ids to the text of their <label for=...>.
func labelTexts(doc *html.Node) map[string]string {
	labels := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "label" {
			for _, a := range n.Attr {
				if strings.EqualFold(a.Key, "for") && a.Val != "" {
					labels[a.Val] = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return labels
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
