// Package scan discovers candidate source files under a project root. It
// only decides which paths enter the pipeline; language support is judged
// later by the parser registry.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Directories never descended into, independent of configuration.
var defaultIgnoreDirs = []string{
	"node_modules",
	"vendor",
	"__pycache__",
	".git",
}

// Scanner walks project trees applying extension and directory filters.
type Scanner struct {
	extensions map[string]bool
	ignoreDirs map[string]bool
}

// NewScanner builds a scanner accepting the given extensions (with leading
// dot, matched case-insensitively) and skipping the given directory names on
// top of the built-in ignore set. Hidden directories are always skipped.
func NewScanner(extensions, ignoreDirs []string) *Scanner {
	s := &Scanner{
		extensions: make(map[string]bool, len(extensions)),
		ignoreDirs: make(map[string]bool, len(ignoreDirs)+len(defaultIgnoreDirs)),
	}
	for _, ext := range extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range defaultIgnoreDirs {
		s.ignoreDirs[dir] = true
	}
	for _, dir := range ignoreDirs {
		if dir != "" {
			s.ignoreDirs[dir] = true
		}
	}
	return s
}

// Files returns the matching file paths under root in sorted order, so runs
// over the same tree are deterministic regardless of filesystem iteration
// order.
func (s *Scanner) Files(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && s.skipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.extensions[strings.ToLower(filepath.Ext(name))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) skipDir(name string) bool {
	if s.ignoreDirs[name] {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// TreeSize sums the byte size of every regular file under root, ignored
// directories included. This is the denominator of the compression ratio,
// which measures against the whole original tree rather than just the files
// that were summarized.
func TreeSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
