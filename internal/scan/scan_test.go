package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.py"), "print('hi')\n")
	writeFile(t, filepath.Join(root, "web", "app.JS"), "let x = 1;\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "skip me\n")
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), "ignored\n")
	writeFile(t, filepath.Join(root, "__pycache__", "main.cpython-311.py"), "ignored\n")
	writeFile(t, filepath.Join(root, ".hidden", "secret.py"), "ignored\n")

	files, err := NewScanner([]string{".py", ".js"}, nil).Files(root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	want := []string{
		filepath.Join(root, "main.py"),
		filepath.Join(root, "web", "app.JS"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestFilesCustomIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.py"), "pass\n")
	writeFile(t, filepath.Join(root, "generated", "b.py"), "pass\n")

	files, err := NewScanner([]string{".py"}, []string{"generated"}).Files(root)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(root, "src", "a.py") {
		t.Errorf("files = %v, want only src/a.py", files)
	}
}

func TestFilesEmptyTree(t *testing.T) {
	files, err := NewScanner([]string{".py"}, nil).Files(t.TempDir())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
}

func TestTreeSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "12345")
	writeFile(t, filepath.Join(root, "node_modules", "b.js"), "123")

	size, err := TreeSize(root)
	if err != nil {
		t.Fatalf("TreeSize: %v", err)
	}
	// Every regular file counts, ignored directories included.
	if size != 8 {
		t.Errorf("size = %d, want 8", size)
	}
}
