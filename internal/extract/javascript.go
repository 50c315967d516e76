package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// JavaScript node kinds consumed by the extractor.
const (
	jsFunctionDecl = "function_declaration"
	jsGeneratorFn  = "generator_function_declaration"
	jsClassDecl    = "class_declaration"
	jsImportStmt   = "import_statement"
	jsLexicalDecl  = "lexical_declaration"
	jsVarDecl      = "variable_declaration"
	jsExprStmt     = "expression_statement"
	jsCallExpr     = "call_expression"
	jsMemberExpr   = "member_expression"
	jsAssignExpr   = "assignment_expression"
	jsArrowFn      = "arrow_function"
)

// Function-expression kinds. The grammar has renamed this node over time, so
// both spellings are accepted.
func isJSFunctionExpr(kind string) bool {
	return kind == "function" || kind == "function_expression"
}

// The literal snapshot captured for array and object initializers is capped
// per level and depth-limited.
const (
	jsSnapshotCap   = 10
	jsSnapshotDepth = 3
)

type javascriptExtractor struct{}

// Extract walks a JavaScript tree, recording functions (declarations plus
// named function/arrow expressions bound by declarators), classes, imports
// (ES modules and require calls), top-level variables, and event bindings.
// Function bodies are not descended into for entity collection; their shape
// is captured by the structural walk instead.
func (e *javascriptExtractor) Extract(root *sitter.Node, source []byte, path string) (*summary.FileSummary, error) {
	s := summary.New(path)

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case jsFunctionDecl, jsGeneratorFn:
			s.Functions = append(s.Functions, e.function(n, n, source, false))
			return false

		case jsClassDecl:
			s.Classes = append(s.Classes, summary.Class{
				Name:         nodeText(n.ChildByFieldName("name"), source),
				Docstring:    jsDocComment(n, source),
				Line:         nodeLine(n),
				InheritsFrom: jsHeritage(n, source),
			})
			return false

		case jsImportStmt:
			e.importStatement(n, source, s)
			return false

		case jsLexicalDecl, jsVarDecl:
			e.declaration(n, source, s)
			return false

		case jsExprStmt:
			e.expressionStatement(n, source, s)
			return true
		}
		return true
	})

	return s, nil
}

// function builds a Function entity. decl is the enclosing declaration used
// for the captured code text; fn is the node carrying parameters and body.
func (e *javascriptExtractor) function(decl, fn *sitter.Node, source []byte, arrow bool) summary.Function {
	name := nodeText(fn.ChildByFieldName("name"), source)
	if name == "" {
		if d := decl.ChildByFieldName("name"); d != nil {
			name = nodeText(d, source)
		} else {
			name = "anonymous"
		}
	}
	return summary.Function{
		Name:           name,
		Docstring:      jsDocComment(decl, source),
		Line:           nodeLine(decl),
		Params:         jsParams(fn, source),
		IsArrow:        arrow,
		Code:           nodeText(decl, source),
		Implementation: walkBodyShape(fn.ChildByFieldName("body"), source, jsShapeKinds),
	}
}

// importStatement records ES module imports, qualifying named imports as
// "module.symbol".
func (e *javascriptExtractor) importStatement(n *sitter.Node, source []byte, s *summary.FileSummary) {
	module := unquote(nodeText(n.ChildByFieldName("source"), source))
	if module == "" {
		return
	}

	qualified := false
	for _, clause := range namedChildren(n) {
		if clause.Type() != "import_clause" {
			continue
		}
		walk(clause, func(c *sitter.Node) bool {
			switch c.Type() {
			case "import_specifier":
				if name := nodeText(c.ChildByFieldName("name"), source); name != "" {
					s.Imports = append(s.Imports, module+"."+name)
					qualified = true
				}
				return false
			case "identifier", "namespace_import":
				s.Imports = append(s.Imports, module)
				qualified = true
				return false
			}
			return true
		})
	}
	if !qualified {
		s.Imports = append(s.Imports, module)
	}
}

// declaration handles var/let/const statements: function-valued declarators
// become function entities, require calls become imports, everything else
// becomes a variable record.
func (e *javascriptExtractor) declaration(n *sitter.Node, source []byte, s *summary.FileSummary) {
	kind := "var"
	if first := n.Child(0); first != nil {
		kind = first.Type()
	}

	for _, d := range namedChildren(n) {
		if d.Type() != "variable_declarator" {
			continue
		}
		name := nodeText(d.ChildByFieldName("name"), source)
		value := d.ChildByFieldName("value")

		if value != nil {
			vt := value.Type()
			if vt == jsArrowFn || isJSFunctionExpr(vt) {
				if name != "" {
					fn := e.function(n, value, source, vt == jsArrowFn)
					fn.Name = name
					s.Functions = append(s.Functions, fn)
				}
				continue
			}
			if imp := jsRequireTarget(value, source); imp != "" {
				s.Imports = append(s.Imports, imp)
				continue
			}
		}
		if name == "" {
			continue
		}

		v := summary.Variable{
			Name: name,
			Kind: kind,
			Line: nodeLine(n),
			Code: nodeText(n, source),
		}
		if value != nil {
			switch value.Type() {
			case "array":
				v.Shape = summary.ShapeArray
				v.Contents = jsArrayContents(value, source, jsSnapshotDepth)
			case "object":
				v.Shape = summary.ShapeObject
				v.Contents = jsObjectContents(value, source, jsSnapshotDepth)
			default:
				v.Shape = summary.ShapeScalar
			}
		}
		s.Variables = append(s.Variables, v)
	}
}

// expressionStatement records bare assignments to plain identifiers and
// detects node-level event bindings.
func (e *javascriptExtractor) expressionStatement(n *sitter.Node, source []byte, s *summary.FileSummary) {
	expr := n.NamedChild(0)
	if expr == nil {
		return
	}

	if expr.Type() == jsAssignExpr {
		left := expr.ChildByFieldName("left")
		if left != nil && left.Type() == "identifier" {
			name := nodeText(left, source)
			if !hasVariable(s, name) {
				v := summary.Variable{
					Name: name,
					Kind: "assignment",
					Line: nodeLine(n),
					Code: nodeText(n, source),
				}
				if right := expr.ChildByFieldName("right"); right != nil {
					switch right.Type() {
					case "array":
						v.Shape = summary.ShapeArray
					case "object":
						v.Shape = summary.ShapeObject
					case jsArrowFn:
						v.Shape = summary.ShapeFunction
					default:
						if isJSFunctionExpr(right.Type()) {
							v.Shape = summary.ShapeFunction
						} else {
							v.Shape = summary.ShapeScalar
						}
					}
				}
				s.Variables = append(s.Variables, v)
			}
		}
	}

	if h, ok := jsEventBinding(expr, source); ok {
		h.Line = nodeLine(n)
		s.EventHandlers = append(s.EventHandlers, h)
	}
}

// jsEventBinding recognizes the two binding idioms: a listener-registration
// call and an "on"-prefixed property assignment. A binding is kept only when
// at least one of element, event, or handler resolved.
func jsEventBinding(expr *sitter.Node, source []byte) (summary.EventHandler, bool) {
	var h summary.EventHandler

	switch expr.Type() {
	case jsCallExpr:
		fn := expr.ChildByFieldName("function")
		if fn == nil || fn.Type() != jsMemberExpr {
			return h, false
		}
		if nodeText(fn.ChildByFieldName("property"), source) != "addEventListener" {
			return h, false
		}
		h.Mechanism = summary.BindListener
		if obj := fn.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			h.Element = nodeText(obj, source)
		}
		args := namedChildren(expr.ChildByFieldName("arguments"))
		if len(args) >= 1 && args[0].Type() == "string" {
			h.Event = unquote(nodeText(args[0], source))
		}
		if len(args) >= 2 {
			h.Handler = jsHandlerName(args[1], source)
		}

	case jsAssignExpr:
		left := expr.ChildByFieldName("left")
		if left == nil || left.Type() != jsMemberExpr {
			return h, false
		}
		prop := nodeText(left.ChildByFieldName("property"), source)
		if !strings.HasPrefix(prop, "on") || len(prop) <= 2 {
			return h, false
		}
		h.Mechanism = summary.BindProperty
		h.Event = prop[2:]
		if obj := left.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			h.Element = nodeText(obj, source)
		}
		if right := expr.ChildByFieldName("right"); right != nil {
			h.Handler = jsHandlerName(right, source)
		}

	default:
		return h, false
	}

	if h.Element == "" && h.Event == "" && h.Handler == "" {
		return h, false
	}
	return h, true
}

// jsHandlerName resolves a handler argument to a function name, or
// "anonymous" for inline function values.
func jsHandlerName(n *sitter.Node, source []byte) string {
	switch {
	case n.Type() == "identifier":
		return nodeText(n, source)
	case n.Type() == jsArrowFn || isJSFunctionExpr(n.Type()):
		return "anonymous"
	}
	return ""
}

// jsRequireTarget returns the module of a require("module") call, or "".
func jsRequireTarget(value *sitter.Node, source []byte) string {
	if value.Type() != jsCallExpr {
		return ""
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || nodeText(fn, source) != "require" {
		return ""
	}
	args := namedChildren(value.ChildByFieldName("arguments"))
	if len(args) >= 1 && args[0].Type() == "string" {
		return unquote(nodeText(args[0], source))
	}
	return ""
}

// jsShapeKinds classifies JavaScript body nodes for the structural walk.
var jsShapeKinds = shapeKinds{
	conditionals: []string{"if_statement", "switch_statement", "ternary_expression"},
	loops:        []string{"for_statement", "for_in_statement", "while_statement", "do_statement"},
	tryCatch:     []string{"try_statement"},
	call:         jsCallExpr,
	callFunction: "function",
	memberAccess: jsMemberExpr,
	memberObject: "object",
	memberField:  "property",
	identifier:   "identifier",
}

// jsParams flattens formal parameters to plain names.
func jsParams(fn *sitter.Node, source []byte) []string {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		// Single-parameter arrow functions carry the identifier directly.
		if p := fn.ChildByFieldName("parameter"); p != nil {
			return []string{nodeText(p, source)}
		}
		return nil
	}
	var out []string
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "identifier":
			out = append(out, nodeText(p, source))
		case "assignment_pattern":
			out = append(out, nodeText(p.ChildByFieldName("left"), source))
		case "rest_pattern":
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

// jsHeritage returns the parent names of a class's extends clause.
func jsHeritage(class *sitter.Node, source []byte) []string {
	for _, c := range namedChildren(class) {
		if c.Type() != "class_heritage" {
			continue
		}
		var out []string
		walk(c, func(n *sitter.Node) bool {
			switch n.Type() {
			case "identifier", jsMemberExpr:
				out = append(out, nodeText(n, source))
				return false
			}
			return true
		})
		return out
	}
	return nil
}

// jsDocComment returns the block comment immediately preceding a
// declaration, with comment markers stripped.
func jsDocComment(n *sitter.Node, source []byte) string {
	prev := n.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := nodeText(prev, source)
	if !strings.HasPrefix(text, "/*") {
		return ""
	}
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*")))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// jsArrayContents captures a bounded snapshot of an array literal.
func jsArrayContents(array *sitter.Node, source []byte, depth int) []interface{} {
	contents := []interface{}{}
	if depth <= 0 {
		return contents
	}
	for _, el := range namedChildren(array) {
		if len(contents) >= jsSnapshotCap {
			break
		}
		contents = append(contents, jsLiteralValue(el, source, depth))
	}
	return contents
}

// jsObjectContents captures a bounded snapshot of an object literal.
func jsObjectContents(object *sitter.Node, source []byte, depth int) map[string]interface{} {
	contents := map[string]interface{}{}
	if depth <= 0 {
		return contents
	}
	n := 0
	for _, pair := range namedChildren(object) {
		if pair.Type() != "pair" || n >= jsSnapshotCap {
			continue
		}
		key := unquote(nodeText(pair.ChildByFieldName("key"), source))
		if key == "" {
			continue
		}
		contents[key] = jsLiteralValue(pair.ChildByFieldName("value"), source, depth)
		n++
	}
	return contents
}

// jsLiteralValue renders one literal snapshot entry. Unrecognized kinds are
// recorded as a "<kind>" marker rather than dropped.
func jsLiteralValue(n *sitter.Node, source []byte, depth int) interface{} {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "string":
		return unquote(nodeText(n, source))
	case "number", "true", "false", "identifier":
		return nodeText(n, source)
	case "null":
		return nil
	case "array":
		return jsArrayContents(n, source, depth-1)
	case "object":
		return jsObjectContents(n, source, depth-1)
	case jsArrowFn:
		return "<Function>"
	}
	if isJSFunctionExpr(n.Type()) {
		return "<Function>"
	}
	return "<" + n.Type() + ">"
}

func hasVariable(s *summary.FileSummary, name string) bool {
	for _, v := range s.Variables {
		if v.Name == name {
			return true
		}
	}
	return false
}
