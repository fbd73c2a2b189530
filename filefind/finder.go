// Package filefind resolves file paths mentioned in tool output against
// an index of project files. Tool output often refers to files relative
// to some build directory the parser never learns, so resolution matches
// trailing path segments instead.
package filefind

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/orca-ide/outparse/task"
)

// Finder indexes project files by base name and resolves lookups by the
// longest trailing-segment match.
//
// Thread Safety: build the index up front; FindFile alone is safe to
// call from concurrent parsers.
type Finder struct {
	byBase map[string][]string
	count  int
}

// NewFinder creates an empty index.
func NewFinder() *Finder {
	return &Finder{byBase: make(map[string][]string)}
}

// Add indexes one file. The path should be absolute.
func (f *Finder) Add(path string) {
	path = filepath.Clean(path)
	base := filepath.Base(path)
	for _, existing := range f.byBase[base] {
		if existing == path {
			return
		}
	}
	f.byBase[base] = append(f.byBase[base], path)
	f.count++
}

// AddGlob indexes every file under root matching the doublestar pattern,
// e.g. "**/*.{c,cc,cpp,h,hpp}".
func (f *Finder) AddGlob(root, pattern string) error {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("globbing %s in %s: %w", pattern, root, err)
	}
	for _, m := range matches {
		f.Add(filepath.Join(root, m))
	}
	return nil
}

// AddTree indexes every regular file under root.
func (f *Finder) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			f.Add(path)
		}
		return nil
	})
}

// Len returns the number of indexed files.
func (f *Finder) Len() int {
	return f.count
}

// FindFile implements task.FileResolver. Among indexed files sharing the
// query's base name, those matching the most trailing path segments win;
// ties return all of them.
func (f *Finder) FindFile(path string) []string {
	query := segments(path)
	if len(query) == 0 {
		return nil
	}
	base := query[len(query)-1]

	var best []string
	bestDepth := 0
	for _, candidate := range f.byBase[base] {
		depth := matchingSuffix(segments(candidate), query)
		if depth > bestDepth {
			bestDepth = depth
			best = best[:0]
		}
		if depth == bestDepth {
			best = append(best, candidate)
		}
	}
	return best
}

func segments(path string) []string {
	path = strings.ReplaceAll(filepath.Clean(path), "\\", "/")
	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." && p != ".." {
			kept = append(kept, p)
		}
	}
	return kept
}

func matchingSuffix(candidate, query []string) int {
	n := 0
	for n < len(candidate) && n < len(query) {
		if candidate[len(candidate)-1-n] != query[len(query)-1-n] {
			break
		}
		n++
	}
	return n
}

var _ task.FileResolver = (*Finder)(nil)
