// Package extract turns parsed syntax trees into FileSummary records. One
// extractor is registered per language; the registry is the single place
// language support is enumerated for summarization.
package extract

import (
	"path/filepath"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Beo-Alvaro/contra-eris/internal/eriserr"
	"github.com/Beo-Alvaro/contra-eris/internal/parse"
	"github.com/Beo-Alvaro/contra-eris/internal/summary"
)

// Extractor walks one parsed tree and produces the file's summary record.
// Implementations must be pure: the same tree and source always yield an
// identical FileSummary.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, path string) (*summary.FileSummary, error)
}

var registry = map[parse.Language]Extractor{
	parse.LangPython:     &pythonExtractor{},
	parse.LangJavaScript: &javascriptExtractor{},
	parse.LangHTML:       &htmlExtractor{},
}

// ForLanguage returns the extractor registered for lang.
func ForLanguage(lang parse.Language) (Extractor, bool) {
	e, ok := registry[lang]
	return e, ok
}

// ForPath selects an extractor by file extension. An unrecognized extension
// yields an UnsupportedLanguage error the caller may treat as skip.
func ForPath(path string) (Extractor, error) {
	lang, ok := parse.FromPath(path)
	if !ok {
		return nil, eriserr.New(eriserr.UnsupportedLanguage,
			"no extractor registered for extension "+filepath.Ext(path)).WithFile(path)
	}
	e, ok := ForLanguage(lang)
	if !ok {
		return nil, eriserr.New(eriserr.UnsupportedLanguage,
			"no extractor registered for language "+string(lang)).WithFile(path)
	}
	return e, nil
}

// Summarize parses nothing itself: it runs the extractor selected by path
// over an already parsed result.
func Summarize(res *parse.Result) (*summary.FileSummary, error) {
	e, err := ForPath(res.Path)
	if err != nil {
		return nil, err
	}
	return e.Extract(res.Root(), res.Source, res.Path)
}

// nodeText returns the source text covered by n.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// nodeLine returns n's 1-indexed start line, or 0 for a nil node.
func nodeLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// walk visits n and all descendants depth-first in natural child order.
// Returning false from fn prunes the subtree.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

// namedChildren returns n's named children in order.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// unquote strips one layer of matching string quotes from s.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// truncate caps s at max runes, appending an ellipsis marker when anything
// was dropped. Cutting on rune boundaries keeps the snapshot valid UTF-8.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
