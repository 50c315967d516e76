package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Python node kinds consumed by the extractor. Anything else is treated as
// an uninteresting "other" node and contributes nothing to the summary.
const (
	pyFunctionDef = "function_definition"
	pyClassDef    = "class_definition"
	pyImport      = "import_statement"
	pyImportFrom  = "import_from_statement"
)

type pythonExtractor struct{}

// Extract walks a Python tree and records functions, classes, and imports.
// Function bodies are additionally walked for control-flow shape and
// invocation targets so the relationship inferrer has material to work with.
func (e *pythonExtractor) Extract(root *sitter.Node, source []byte, path string) (*summary.FileSummary, error) {
	s := summary.New(path)

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case pyFunctionDef:
			fn := summary.Function{
				Name:           nodeText(n.ChildByFieldName("name"), source),
				Docstring:      pyDocstring(n, source),
				Line:           nodeLine(n),
				Params:         pyParams(n.ChildByFieldName("parameters"), source),
				Code:           nodeText(n, source),
				Implementation: walkBodyShape(n.ChildByFieldName("body"), source, pyShapeKinds),
			}
			s.Functions = append(s.Functions, fn)
			// Nested defs are classified as their own entities by the
			// continued walk.

		case pyClassDef:
			s.Classes = append(s.Classes, summary.Class{
				Name:         nodeText(n.ChildByFieldName("name"), source),
				Docstring:    pyDocstring(n, source),
				Line:         nodeLine(n),
				InheritsFrom: pySuperclasses(n, source),
			})

		case pyImport:
			for _, c := range namedChildren(n) {
				switch c.Type() {
				case "dotted_name":
					s.Imports = append(s.Imports, nodeText(c, source))
				case "aliased_import":
					s.Imports = append(s.Imports, nodeText(c.ChildByFieldName("name"), source))
				}
			}
			return false

		case pyImportFrom:
			e.importFrom(n, source, s)
			return false
		}
		return true
	})

	return s, nil
}

// importFrom records "module.symbol" entries for `from module import symbol`
// statements, matching the qualified-import convention the graph builder's
// class-suffix rule depends on.
func (e *pythonExtractor) importFrom(n *sitter.Node, source []byte, s *summary.FileSummary) {
	moduleNode := n.ChildByFieldName("module_name")
	module := strings.TrimLeft(nodeText(moduleNode, source), ".")

	for _, c := range namedChildren(n) {
		if moduleNode != nil && c.StartByte() == moduleNode.StartByte() && c.EndByte() == moduleNode.EndByte() {
			continue
		}
		var name string
		switch c.Type() {
		case "dotted_name":
			name = nodeText(c, source)
		case "aliased_import":
			name = nodeText(c.ChildByFieldName("name"), source)
		case "wildcard_import":
			name = "*"
		default:
			continue
		}
		if module != "" {
			s.Imports = append(s.Imports, module+"."+name)
		} else {
			s.Imports = append(s.Imports, name)
		}
	}
}

// pyShapeKinds classifies Python body nodes for the structural walk.
var pyShapeKinds = shapeKinds{
	conditionals: []string{"if_statement", "conditional_expression", "match_statement"},
	loops:        []string{"for_statement", "while_statement"},
	tryCatch:     []string{"try_statement"},
	call:         "call",
	callFunction: "function",
	memberAccess: "attribute",
	memberObject: "object",
	memberField:  "attribute",
	identifier:   "identifier",
}

// pyParams flattens a parameters node to plain parameter names.
func pyParams(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}
	var out []string
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "identifier":
			out = append(out, nodeText(p, source))
		case "default_parameter", "typed_default_parameter":
			out = append(out, nodeText(p.ChildByFieldName("name"), source))
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			for _, c := range namedChildren(p) {
				if c.Type() == "identifier" {
					out = append(out, nodeText(c, source))
					break
				}
			}
		}
	}
	return out
}

// pySuperclasses returns the names listed in a class's superclass list.
func pySuperclasses(class *sitter.Node, source []byte) []string {
	supers := class.ChildByFieldName("superclasses")
	if supers == nil {
		return nil
	}
	var out []string
	for _, c := range namedChildren(supers) {
		switch c.Type() {
		case "identifier", "attribute":
			out = append(out, nodeText(c, source))
		}
	}
	return out
}

// pyDocstring returns the leading string literal of a definition body, the
// Python docstring convention. Returns "" when the first statement is
// anything else.
func pyDocstring(def *sitter.Node, source []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return strings.TrimSpace(stripPyQuotes(nodeText(str, source)))
}

// stripPyQuotes removes Python string delimiters, including triple quotes
// and r/b/f prefixes.
func stripPyQuotes(s string) string {
	for len(s) > 0 {
		c := s[0]
		if c == 'r' || c == 'b' || c == 'f' || c == 'u' || c == 'R' || c == 'B' || c == 'F' || c == 'U' {
			s = s[1:]
			continue
		}
		break
	}
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}
