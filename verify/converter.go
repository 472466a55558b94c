package verify

import (
	"bytes"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

// Converted is a profile page reduced to its title and Markdown body.
type Converted struct {
	Title    string
	Markdown string
}

// converter turns rendered profile pages back into Markdown so both trees
// can be compared with one parser.
type converter struct {
	converter *md.Converter
}

func newConverter() *converter {
	return &converter{
		converter: md.NewConverter("", true, &md.Options{
			HeadingStyle:   "atx",
			HorizontalRule: "---",
			EscapeMode:     "disabled",
		}),
	}
}

// Convert strips page chrome (style, navigation) and converts the rest.
func (c *converter) Convert(page []byte) (*Converted, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	title := extractTitle(doc)
	removeElements(doc, "style", "script")
	removeByClass(doc, "nav-buttons")

	body := doc
	if b := findElement(doc, "body"); b != nil {
		body = b
	}
	markdown, err := c.converter.ConvertString(renderNode(body))
	if err != nil {
		return nil, err
	}

	return &Converted{Title: title, Markdown: markdown}, nil
}

func extractTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil && t.FirstChild != nil {
		return strings.TrimSpace(t.FirstChild.Data)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func removeElements(n *html.Node, tags ...string) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	removeMatching(n, func(node *html.Node) bool {
		return tagSet[node.Data]
	})
}

func removeByClass(n *html.Node, classes ...string) {
	classSet := make(map[string]bool, len(classes))
	for _, class := range classes {
		classSet[class] = true
	}
	removeMatching(n, func(node *html.Node) bool {
		for _, a := range node.Attr {
			if a.Key != "class" {
				continue
			}
			for _, c := range strings.Fields(a.Val) {
				if classSet[c] {
					return true
				}
			}
		}
		return false
	})
}

func removeMatching(n *html.Node, match func(*html.Node) bool) {
	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && match(node) {
			toRemove = append(toRemove, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}
