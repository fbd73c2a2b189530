package filefind

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestFinder_FindFile(t *testing.T) {
	f := NewFinder()
	f.Add("/home/dev/proj/src/main.cpp")
	f.Add("/home/dev/proj/tests/main.cpp")
	f.Add("/home/dev/proj/src/util.cpp")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"unique base", "util.cpp", []string{"/home/dev/proj/src/util.cpp"}},
		{"segment disambiguates", "src/main.cpp", []string{"/home/dev/proj/src/main.cpp"}},
		{"other segment", "tests/main.cpp", []string{"/home/dev/proj/tests/main.cpp"}},
		{"tie returns all", "main.cpp",
			[]string{"/home/dev/proj/src/main.cpp", "/home/dev/proj/tests/main.cpp"}},
		{"relative noise ignored", "../../src/main.cpp", []string{"/home/dev/proj/src/main.cpp"}},
		{"backslash separators", `src\main.cpp`, []string{"/home/dev/proj/src/main.cpp"}},
		{"unknown file", "missing.cpp", nil},
		{"empty query", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FindFile(tt.query)
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindFile(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFinder_AddDeduplicates(t *testing.T) {
	f := NewFinder()
	f.Add("/proj/a.c")
	f.Add("/proj/a.c")
	f.Add("/proj/sub/../a.c")

	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
}

func TestFinder_DeeperSuffixWins(t *testing.T) {
	f := NewFinder()
	f.Add("/a/x/y/f.c")
	f.Add("/b/z/y/f.c")

	got := f.FindFile("x/y/f.c")
	want := []string{"/a/x/y/f.c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindFile() = %v, want %v", got, want)
	}
}

func seedTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFinder_AddTree(t *testing.T) {
	root := seedTree(t, "src/main.cpp", "src/util.h", "docs/readme.md")

	f := NewFinder()
	if err := f.AddTree(root); err != nil {
		t.Fatalf("AddTree() error = %v", err)
	}
	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.Len())
	}
	got := f.FindFile("main.cpp")
	want := []string{filepath.Join(root, "src", "main.cpp")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindFile(main.cpp) = %v, want %v", got, want)
	}
}

func TestFinder_AddGlob(t *testing.T) {
	root := seedTree(t, "src/main.cpp", "src/util.h", "docs/readme.md", "src/deep/extra.cpp")

	f := NewFinder()
	if err := f.AddGlob(root, "**/*.{cpp,h}"); err != nil {
		t.Fatalf("AddGlob() error = %v", err)
	}
	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3 with the markdown file excluded", f.Len())
	}
	if got := f.FindFile("readme.md"); got != nil {
		t.Errorf("FindFile(readme.md) = %v, want nil", got)
	}
}

func TestFinder_AddGlobBadPattern(t *testing.T) {
	f := NewFinder()
	if err := f.AddGlob(t.TempDir(), "[unclosed"); err == nil {
		t.Error("AddGlob() error = nil, want error")
	}
}
