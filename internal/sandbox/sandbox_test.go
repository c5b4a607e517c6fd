package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathInsideRoot(t *testing.T) {
	root := t.TempDir()

	resolved, err := ValidatePath(root, "folder_a/a1.txt")
	if err != nil {
		t.Fatalf("ValidatePath: %v", err)
	}
	if filepath.Base(resolved) != "a1.txt" {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
}

func TestValidatePathRejectsEscape(t *testing.T) {
	root := t.TempDir()

	cases := []string{
		"../outside.txt",
		"../../etc/passwd",
		"folder/../../outside",
	}
	for _, rel := range cases {
		if _, err := ValidatePath(root, rel); err == nil {
			t.Errorf("ValidatePath(%q): expected error, got nil", rel)
		}
	}
}

func TestValidatePathRejectsAbsolute(t *testing.T) {
	root := t.TempDir()

	if _, err := ValidatePath(root, "/tmp/out"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}

func TestValidatePathRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	root := t.TempDir()

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := ValidatePath(root, "escape/file.txt"); err == nil {
		t.Error("expected symlink escape to be rejected")
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()

	if err := EnsureDir(root, "folder_a", 0o755); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "folder_a"))
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}

	// Reusing an existing directory is not an error.
	if err := EnsureDir(root, "folder_a", 0o755); err != nil {
		t.Fatalf("EnsureDir on existing dir: %v", err)
	}
}

func TestEnsureDirRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "occupied"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureDir(root, "occupied", 0o755); err == nil {
		t.Error("expected error when a file occupies the directory path")
	}
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	content := []byte("the quick brown fox")
	if err := os.WriteFile(filepath.Join(root, "src.txt"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "dst"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(root, "src.txt", "dst/src.txt"); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "dst", "src.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	// Source stays in place.
	if _, err := os.Stat(filepath.Join(root, "src.txt")); err != nil {
		t.Fatalf("source removed by copy: %v", err)
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "src.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "dst"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "dst", "src.txt"), []byte("stale content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(root, "src.txt", "dst/src.txt"); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "dst", "src.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("destination not overwritten: got %q", got)
	}
}

func TestCopyFileOntoItself(t *testing.T) {
	root := t.TempDir()
	content := []byte("must survive")
	if err := os.WriteFile(filepath.Join(root, "a1.txt"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	// Destination "." resolves the copy target onto the source itself;
	// the copy must be a no-op, not a truncation.
	if err := CopyFile(root, "a1.txt", "a1.txt"); err != nil {
		t.Fatalf("CopyFile onto itself: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "a1.txt"))
	if err != nil {
		t.Fatalf("source destroyed by self-copy: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mangled by self-copy: got %q, want %q", got, content)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "dst"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(root, "nope.txt", "dst/nope.txt"); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "gone.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Remove(root, "gone.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "gone.txt")); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}
}

func TestHashFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(root, "a.txt")
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("hash mismatch: got %s, want %s", got, want)
	}
}
