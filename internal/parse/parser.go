// Package parse wraps the tree-sitter parsers behind a file-extension keyed
// registry. It is the boundary collaborator that supplies walkable syntax
// trees to the extractors; it never interprets tree contents itself.
package parse

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/Beo-Alvaro/contra-eris/internal/eriserr"
)

// Language identifies a supported source language.
type Language string

const (
	// LangPython covers .py files
	LangPython Language = "python"
	// LangJavaScript covers .js and .mjs files
	LangJavaScript Language = "javascript"
	// LangHTML covers .html and .htm files
	LangHTML Language = "html"
)

var extToLang = map[string]Language{
	".py":   LangPython,
	".js":   LangJavaScript,
	".mjs":  LangJavaScript,
	".html": LangHTML,
	".htm":  LangHTML,
}

// FromExtension maps a file extension (with leading dot, any case) to its
// language.
func FromExtension(ext string) (Language, bool) {
	lang, ok := extToLang[strings.ToLower(ext)]
	return lang, ok
}

// FromPath maps a file path to its language via the extension registry.
func FromPath(path string) (Language, bool) {
	return FromExtension(filepath.Ext(path))
}

// SupportedExtensions returns the registry's extension keys, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extToLang))
	for ext := range extToLang {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Result is one parsed file: the tree plus the source bytes the tree's byte
// offsets refer to.
type Result struct {
	Path     string
	Language Language
	Source   []byte
	Tree     *sitter.Tree
}

// Root returns the tree's root node.
func (r *Result) Root() *sitter.Node {
	return r.Tree.RootNode()
}

// Close releases the underlying tree.
func (r *Result) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Parser parses source files into syntax trees. It is not safe for
// concurrent use; create one per worker.
type Parser struct {
	parsers map[Language]*sitter.Parser
}

// NewParser creates a parser with all supported grammars registered.
func NewParser() *Parser {
	mk := func(l *sitter.Language) *sitter.Parser {
		p := sitter.NewParser()
		p.SetLanguage(l)
		return p
	}
	return &Parser{
		parsers: map[Language]*sitter.Parser{
			LangPython:     mk(python.GetLanguage()),
			LangJavaScript: mk(javascript.GetLanguage()),
			LangHTML:       mk(html.GetLanguage()),
		},
	}
}

// Parse parses source as the language selected by path's extension.
// An unregistered extension yields an UnsupportedLanguage error.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*Result, error) {
	lang, ok := FromPath(path)
	if !ok {
		return nil, eriserr.New(eriserr.UnsupportedLanguage,
			"no parser registered for extension "+filepath.Ext(path)).WithFile(path)
	}

	tree, err := p.parsers[lang].ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, eriserr.Wrap(eriserr.ExtractionFailure, "parse failed", err).WithFile(path)
	}

	return &Result{Path: path, Language: lang, Source: source, Tree: tree}, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, eriserr.Wrap(eriserr.ExtractionFailure, "read failed", err).WithFile(path)
	}
	return p.Parse(ctx, path, source)
}
