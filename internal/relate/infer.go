// Package relate enriches file summaries with inferred in-file
// relationships: caller/callee links between declared functions and event
// bindings that only show up in captured code text. It runs after entity
// extraction and mutates summaries in place; it never crosses file
// boundaries.
package relate

import (
	"regexp"
	"strings"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Markers identifying a variable bound to a document element lookup.
var domLookupMarkers = []string{
	"document.getElementById",
	"document.querySelector",
}

// Inferrer derives in-file relationships for one summary at a time. It is
// stateless and safe for concurrent use.
type Inferrer struct {
	listenerPattern *regexp.Regexp
	propertyPattern *regexp.Regexp
}

// NewInferrer compiles the binding patterns once.
func NewInferrer() *Inferrer {
	return &Inferrer{
		// elem.addEventListener('click', handler
		listenerPattern: regexp.MustCompile(
			`\.addEventListener\(\s*['"]([\w-]+)['"]\s*,\s*([\w$]+|function\b|\()`),
		// elem.onclick = handler
		propertyPattern: regexp.MustCompile(
			`\.on(\w+)\s*=\s*([\w$]+|function\b|\()`),
	}
}

// Infer runs both call-inference passes and the text-level event scan over
// one summary. Call edges are recorded on the owning function's
// called_functions set and tagged with their origin in CallSites; a name
// reached by both passes keeps the textual tag since that pass runs first.
func (in *Inferrer) Infer(s *summary.FileSummary) {
	in.inferCalls(s)
	in.inferStructural(s)
	in.scanEventBindings(s)
}

// inferCalls is the textual pass: function B is considered called by A when
// "B(" appears anywhere in A's captured code. Cheap and over-approximate;
// the structural pass below compensates for its misses.
func (in *Inferrer) inferCalls(s *summary.FileSummary) {
	for i := range s.Functions {
		caller := &s.Functions[i]
		if caller.Code == "" {
			continue
		}
		for j := range s.Functions {
			if i == j {
				continue
			}
			callee := s.Functions[j].Name
			if callee == "" || !strings.Contains(caller.Code, callee+"(") {
				continue
			}
			if caller.AddCall(callee) {
				s.CallSites = append(s.CallSites, summary.CallSite{
					Caller: caller.Name,
					Callee: callee,
					Origin: summary.OriginTextual,
				})
			}
		}
	}
}

// inferStructural merges the structural walk's invocation targets into the
// entity-level call sets, filtered to names declared in the same file.
// Member targets ("object.method") never match a declared name and are left
// to the implementation record only.
func (in *Inferrer) inferStructural(s *summary.FileSummary) {
	known := map[string]bool{}
	for _, name := range s.FunctionNames() {
		known[name] = true
	}

	for i := range s.Functions {
		caller := &s.Functions[i]
		if caller.Implementation == nil {
			continue
		}
		for _, target := range caller.Implementation.CalledFunctions {
			if !known[target] {
				continue
			}
			if caller.AddCall(target) {
				s.CallSites = append(s.CallSites, summary.CallSite{
					Caller: caller.Name,
					Callee: target,
					Origin: summary.OriginStructural,
				})
			}
		}
	}
}

// scanEventBindings finds bindings attached to document-element variables
// inside function bodies, where the node-level extraction pass does not
// look. Bindings already recorded by that pass are not duplicated.
func (in *Inferrer) scanEventBindings(s *summary.FileSummary) {
	elements := domElementVariables(s)
	if len(elements) == 0 {
		return
	}

	for _, f := range s.Functions {
		if f.Code == "" {
			continue
		}
		for _, elem := range elements {
			in.scanElement(s, elem, f.Code)
		}
	}
}

// scanElement applies both binding patterns for one element variable against
// one code body.
func (in *Inferrer) scanElement(s *summary.FileSummary, elem, code string) {
	prefix := elem + "."
	for _, line := range strings.Split(code, "\n") {
		idx := strings.Index(line, prefix)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(elem):]

		if m := in.listenerPattern.FindStringSubmatch(rest); m != nil {
			addBinding(s, summary.EventHandler{
				Element:   elem,
				Mechanism: summary.BindListener,
				Event:     m[1],
				Handler:   handlerName(m[2]),
			})
			continue
		}
		if m := in.propertyPattern.FindStringSubmatch(rest); m != nil {
			addBinding(s, summary.EventHandler{
				Element:   elem,
				Mechanism: summary.BindProperty,
				Event:     m[1],
				Handler:   handlerName(m[2]),
			})
		}
	}
}

// domElementVariables returns names of variables whose captured code shows a
// document element lookup.
func domElementVariables(s *summary.FileSummary) []string {
	var out []string
	for _, v := range s.Variables {
		for _, marker := range domLookupMarkers {
			if strings.Contains(v.Code, marker) {
				out = append(out, v.Name)
				break
			}
		}
	}
	return out
}

func handlerName(match string) string {
	if match == "(" || match == "function" {
		return "anonymous"
	}
	return match
}

// addBinding appends h unless an identical binding is already recorded.
func addBinding(s *summary.FileSummary, h summary.EventHandler) {
	for _, existing := range s.EventHandlers {
		if existing.Element == h.Element &&
			existing.Mechanism == h.Mechanism &&
			existing.Event == h.Event &&
			existing.Handler == h.Handler {
			return
		}
	}
	s.EventHandlers = append(s.EventHandlers, h)
}
