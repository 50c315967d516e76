package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// shapeKinds describes, per language, which node kinds the structural walk
// classifies as control flow and how call expressions are shaped.
type shapeKinds struct {
	conditionals []string
	loops        []string
	tryCatch     []string

	call         string // call-expression kind
	callFunction string // field holding the callee
	memberAccess string // member/attribute access kind
	memberObject string // field holding the object of a member access
	memberField  string // field holding the member name
	identifier   string // plain identifier kind
}

func kindIn(kind string, kinds []string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// walkBodyShape recursively walks a function body, detecting control-flow
// shape and collecting invocation targets. Direct calls are recorded by
// callee name; member calls are recorded as "object.member". Member calls
// also mark the body as reaching outside the local declaration set.
func walkBodyShape(body *sitter.Node, source []byte, kinds shapeKinds) *summary.Implementation {
	impl := &summary.Implementation{}
	if body == nil {
		return impl
	}

	walk(body, func(n *sitter.Node) bool {
		kind := n.Type()
		switch {
		case kindIn(kind, kinds.conditionals):
			impl.HasConditionals = true
		case kindIn(kind, kinds.loops):
			impl.HasLoops = true
		case kindIn(kind, kinds.tryCatch):
			impl.HasTryCatch = true
		case kind == kinds.call:
			if target, member := callTarget(n, source, kinds); target != "" {
				if member {
					impl.HasExternalCalls = true
				}
				addUnique(&impl.CalledFunctions, target)
			}
		}
		return true
	})

	return impl
}

// callTarget resolves a call expression to a callee name. The second return
// reports whether the callee was a member access.
func callTarget(call *sitter.Node, source []byte, kinds shapeKinds) (string, bool) {
	fn := call.ChildByFieldName(kinds.callFunction)
	if fn == nil {
		return "", false
	}
	switch fn.Type() {
	case kinds.identifier:
		return nodeText(fn, source), false
	case kinds.memberAccess:
		obj := fn.ChildByFieldName(kinds.memberObject)
		member := fn.ChildByFieldName(kinds.memberField)
		if obj != nil && obj.Type() == kinds.identifier && member != nil {
			return nodeText(obj, source) + "." + nodeText(member, source), true
		}
		if member != nil {
			return nodeText(member, source), true
		}
	}
	return "", false
}

func addUnique(list *[]string, s string) {
	for _, v := range *list {
		if v == s {
			return
		}
	}
	*list = append(*list, s)
}
