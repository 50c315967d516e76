package extract

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Inline script and style bodies are truncated to this many bytes before
// being stored.
const htmlInlineCap = 100

// Structural tags recorded as layout elements when they carry an id.
var htmlStructuralTags = map[string]bool{
	"div":     true,
	"section": true,
	"main":    true,
	"header":  true,
	"footer":  true,
	"nav":     true,
}

type htmlExtractor struct{}

// Extract walks a markup tree recording the page title, meta tags, linked
// and inline scripts and styles, structural elements, and forms with their
// input fields. Linked stylesheets and script sources land in Imports so the
// graph builder sees markup dependencies the same way it sees code imports.
func (e *htmlExtractor) Extract(root *sitter.Node, source []byte, path string) (*summary.FileSummary, error) {
	s := summary.New(path)

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "element":
			return e.element(n, source, s)
		case "script_element":
			e.script(n, source, s)
			return false
		case "style_element":
			body := htmlRawText(n, source)
			if body != "" {
				s.Styles = append(s.Styles, summary.InlineBlock{
					ID:      fmt.Sprintf("inline_style_%d", len(s.Styles)+1),
					Content: truncate(body, htmlInlineCap),
				})
			}
			return false
		}
		return true
	})

	return s, nil
}

// element handles one regular element. The return value controls descent:
// forms are scanned for inputs internally and pruned, everything else keeps
// walking so nested structure is seen.
func (e *htmlExtractor) element(n *sitter.Node, source []byte, s *summary.FileSummary) bool {
	tag := htmlTagName(n, source)
	attrs := htmlAttributes(n, source)

	switch {
	case tag == "title":
		s.Title = strings.TrimSpace(htmlText(n, source))

	case tag == "meta":
		name := attrs["name"]
		if name == "" {
			name = attrs["property"]
		}
		if name != "" && attrs["content"] != "" {
			s.Meta = append(s.Meta, summary.MetaTag{Name: name, Content: attrs["content"]})
		}

	case tag == "link":
		if attrs["rel"] == "stylesheet" && attrs["href"] != "" {
			s.Imports = append(s.Imports, attrs["href"])
		}

	case tag == "form":
		id := attrs["id"]
		if id == "" {
			id = fmt.Sprintf("form_%d", htmlFormCount(s)+1)
		}
		method := strings.ToLower(attrs["method"])
		if method == "" {
			method = "get"
		}
		s.Elements = append(s.Elements, summary.Element{
			Tag:    "form",
			ID:     id,
			Class:  attrs["class"],
			Action: attrs["action"],
			Method: method,
			Inputs: htmlFormInputs(n, source),
		})
		return false

	case htmlStructuralTags[tag] && attrs["id"] != "":
		s.Elements = append(s.Elements, summary.Element{
			Tag:   tag,
			ID:    attrs["id"],
			Class: attrs["class"],
		})
	}
	return true
}

// script records an external script as an import, or an inline body as a
// truncated script block.
func (e *htmlExtractor) script(n *sitter.Node, source []byte, s *summary.FileSummary) {
	attrs := htmlAttributes(n, source)
	if src := attrs["src"]; src != "" {
		s.Imports = append(s.Imports, src)
		return
	}
	body := htmlRawText(n, source)
	if body == "" {
		return
	}
	s.Scripts = append(s.Scripts, summary.InlineBlock{
		ID:      fmt.Sprintf("inline_script_%d", len(s.Scripts)+1),
		Content: truncate(body, htmlInlineCap),
	})
}

// htmlFormInputs collects the input fields inside a form element.
func htmlFormInputs(form *sitter.Node, source []byte) []summary.FormInput {
	var inputs []summary.FormInput
	walk(form, func(n *sitter.Node) bool {
		if n.Type() != "element" && n.Type() != "start_tag" && n.Type() != "self_closing_tag" {
			return true
		}
		if n.Type() == "element" {
			return true
		}
		tag := htmlTagText(n, source)
		switch tag {
		case "input", "textarea", "select":
			attrs := htmlTagAttributes(n, source)
			typ := attrs["type"]
			if tag != "input" {
				typ = tag
			} else if typ == "" {
				typ = "text"
			}
			inputs = append(inputs, summary.FormInput{
				Type: typ,
				Name: attrs["name"],
				ID:   attrs["id"],
			})
		}
		return false
	})
	return inputs
}

func htmlFormCount(s *summary.FileSummary) int {
	n := 0
	for _, el := range s.Elements {
		if el.Tag == "form" {
			n++
		}
	}
	return n
}

// htmlOpenTag returns an element's start or self-closing tag node.
func htmlOpenTag(element *sitter.Node) *sitter.Node {
	for _, c := range namedChildren(element) {
		switch c.Type() {
		case "start_tag", "self_closing_tag":
			return c
		}
	}
	return nil
}

// htmlTagName returns an element's lowercased tag name.
func htmlTagName(element *sitter.Node, source []byte) string {
	return htmlTagText(htmlOpenTag(element), source)
}

// htmlTagText returns the lowercased tag name of a start or self-closing
// tag node.
func htmlTagText(tag *sitter.Node, source []byte) string {
	if tag == nil {
		return ""
	}
	for _, c := range namedChildren(tag) {
		if c.Type() == "tag_name" {
			return strings.ToLower(nodeText(c, source))
		}
	}
	return ""
}

// htmlAttributes returns an element's attributes, keyed by lowercased name.
func htmlAttributes(element *sitter.Node, source []byte) map[string]string {
	return htmlTagAttributes(htmlOpenTag(element), source)
}

// htmlTagAttributes reads the attributes of a start or self-closing tag.
// Quoted values are unwrapped; bare attributes map to "".
func htmlTagAttributes(tag *sitter.Node, source []byte) map[string]string {
	attrs := map[string]string{}
	if tag == nil {
		return attrs
	}
	for _, c := range namedChildren(tag) {
		if c.Type() != "attribute" {
			continue
		}
		var name, value string
		for _, a := range namedChildren(c) {
			switch a.Type() {
			case "attribute_name":
				name = strings.ToLower(nodeText(a, source))
			case "quoted_attribute_value":
				for _, v := range namedChildren(a) {
					if v.Type() == "attribute_value" {
						value = nodeText(v, source)
					}
				}
			case "attribute_value":
				value = nodeText(a, source)
			}
		}
		if name != "" {
			attrs[name] = value
		}
	}
	return attrs
}

// htmlText concatenates an element's direct text children.
func htmlText(element *sitter.Node, source []byte) string {
	var b strings.Builder
	for _, c := range namedChildren(element) {
		if c.Type() == "text" {
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

// htmlRawText returns the raw body of a script or style element.
func htmlRawText(element *sitter.Node, source []byte) string {
	for _, c := range namedChildren(element) {
		if c.Type() == "raw_text" {
			return strings.TrimSpace(nodeText(c, source))
		}
	}
	return ""
}
