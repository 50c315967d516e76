// Package summary defines the language-agnostic per-file record produced by
// entity extraction. Field names and nesting are part of the persisted
// artifact's compatibility contract, so JSON tags follow the CBSF layout.
package summary

// FileSummary is the canonical record of entities extracted from one source
// file. It is created once per processed file and treated as immutable once
// handed to the corpus assembler.
type FileSummary struct {
	File          string         `json:"file"`
	Functions     []Function     `json:"functions"`
	Classes       []Class        `json:"classes"`
	Imports       []string       `json:"imports"`
	Variables     []Variable     `json:"variables,omitempty"`
	EventHandlers []EventHandler `json:"event_handlers,omitempty"`

	// Markup-only fields.
	Title    string        `json:"title,omitempty"`
	Meta     []MetaTag     `json:"meta,omitempty"`
	Elements []Element     `json:"elements,omitempty"`
	Scripts  []InlineBlock `json:"scripts,omitempty"`
	Styles   []InlineBlock `json:"styles,omitempty"`

	// CallSites tags each inferred call edge with the technique that produced
	// it, so downstream consumers can reason about precision separately from
	// the plain called_functions listing.
	CallSites []CallSite `json:"call_sites,omitempty"`
}

// New returns a FileSummary for path with the always-present lists allocated,
// so an empty file serializes as empty lists rather than null.
func New(path string) *FileSummary {
	return &FileSummary{
		File:      path,
		Functions: []Function{},
		Classes:   []Class{},
		Imports:   []string{},
	}
}

// Function describes one function or method declaration.
type Function struct {
	Name      string   `json:"name"`
	Docstring string   `json:"docstring,omitempty"`
	Line      int      `json:"lineno"`
	Params    []string `json:"params,omitempty"`
	IsArrow   bool     `json:"is_arrow,omitempty"`

	// Code is the captured source text of the declaration. It feeds the
	// textual call cross-reference and the component-relationship scan.
	Code string `json:"code,omitempty"`

	Implementation *Implementation `json:"implementation,omitempty"`

	// CalledFunctions is the best-effort set of callee names. It may contain
	// false positives and false negatives; it never contains Name itself.
	CalledFunctions []string `json:"called_functions,omitempty"`
}

// Implementation summarizes the shape of a function body.
type Implementation struct {
	HasConditionals  bool `json:"has_conditionals"`
	HasLoops         bool `json:"has_loops"`
	HasTryCatch      bool `json:"has_try_catch"`
	HasExternalCalls bool `json:"has_external_calls"`

	// CalledFunctions holds every invocation target seen during the
	// structural walk, including member calls recorded as "object.method".
	// Unlike the entity-level set it is not filtered to known functions.
	CalledFunctions []string `json:"called_functions,omitempty"`
}

// Class describes one class declaration.
type Class struct {
	Name         string   `json:"name"`
	Docstring    string   `json:"docstring,omitempty"`
	Line         int      `json:"lineno"`
	InheritsFrom []string `json:"inherits_from,omitempty"`
}

// Variable describes one top-level variable declaration or assignment.
type Variable struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // declaration keyword, or "assignment"
	Line int    `json:"lineno"`

	// Shape is the inferred value shape: "scalar", "array", "object" or
	// "function". Empty when the initializer is absent.
	Shape string `json:"value_type,omitempty"`

	// Contents is a depth-limited literal snapshot for arrays and objects,
	// capped at 10 elements per level.
	Contents interface{} `json:"contents,omitempty"`

	Code string `json:"code,omitempty"`
}

// Value shapes recorded in Variable.Shape.
const (
	ShapeScalar   = "scalar"
	ShapeArray    = "array"
	ShapeObject   = "object"
	ShapeFunction = "function"
)

// EventHandler describes one discovered event binding. Partially resolved
// bindings are retained as long as at least one of element, event, or handler
// is known.
type EventHandler struct {
	Element   string `json:"element,omitempty"`
	Mechanism string `json:"type,omitempty"` // "addEventListener" or "property"
	Event     string `json:"event,omitempty"`
	Handler   string `json:"handler,omitempty"` // name, or "anonymous"
	Line      int    `json:"lineno,omitempty"`
}

// Binding mechanisms recorded in EventHandler.Mechanism.
const (
	BindListener = "addEventListener"
	BindProperty = "property"
)

// Element describes a structural UI node, or a form when the form-only
// fields are populated.
type Element struct {
	Tag    string      `json:"type,omitempty"`
	ID     string      `json:"id,omitempty"`
	Class  string      `json:"class,omitempty"`
	Action string      `json:"action,omitempty"`
	Method string      `json:"method,omitempty"`
	Inputs []FormInput `json:"inputs,omitempty"`
}

// FormInput describes one input field of a form.
type FormInput struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// MetaTag is a page metadata entry harvested from markup.
type MetaTag struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// InlineBlock is an inline script or style body, truncated for storage.
type InlineBlock struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Call-edge origin tags recorded in CallSite.Origin.
const (
	OriginTextual    = "textual-match"
	OriginStructural = "structural-walk"
)

// CallSite records one inferred caller/callee pair and its origin.
type CallSite struct {
	Caller string `json:"caller"`
	Callee string `json:"callee"`
	Origin string `json:"origin"`
}

// FunctionNames returns the declared function names in declaration order.
func (s *FileSummary) FunctionNames() []string {
	names := make([]string, 0, len(s.Functions))
	for _, f := range s.Functions {
		names = append(names, f.Name)
	}
	return names
}

// HasCall reports whether the function already records callee in its
// called-functions set.
func (f *Function) HasCall(callee string) bool {
	for _, c := range f.CalledFunctions {
		if c == callee {
			return true
		}
	}
	return false
}

// AddCall appends callee to the called-functions set, ignoring duplicates and
// self-references.
func (f *Function) AddCall(callee string) bool {
	if callee == "" || callee == f.Name || f.HasCall(callee) {
		return false
	}
	f.CalledFunctions = append(f.CalledFunctions, callee)
	return true
}
