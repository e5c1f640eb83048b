package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestResolve_CreatesParentsForFiles(t *testing.T) {
	root := t.TempDir()
	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	got, err := r.Resolve(BuildInfo)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := filepath.Join(root, ".batterypack", "typescript", "tsconfig.tsbuildinfo")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if info, err := os.Stat(filepath.Dir(got)); err != nil || !info.IsDir() {
		t.Fatalf("expected parent directory to exist, err=%v", err)
	}
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Fatalf("expected file itself not to be created, err=%v", err)
	}
}

func TestResolve_CreatesDirectories(t *testing.T) {
	root := t.TempDir()
	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	got, err := r.Resolve(SourceDir)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Fatalf("expected %s to be a directory, err=%v", got, err)
	}
}

func TestResolve_HoistFindsAncestor(t *testing.T) {
	top := t.TempDir()
	shared := filepath.Join(top, ".batterypack", "credentials.yml")
	mustWriteFile(t, shared, "credentials: {}\n")

	nested := filepath.Join(top, "a", "b")
	r, err := NewResolver(nested)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	got, err := r.Resolve(CredentialsFile)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != shared {
		t.Fatalf("expected hoisted path %s, got %s", shared, got)
	}
}

func TestResolve_HoistPrefersClosest(t *testing.T) {
	top := t.TempDir()
	mustWriteFile(t, filepath.Join(top, ".batterypack", "credentials.yml"), "")
	closer := filepath.Join(top, "a", ".batterypack", "credentials.yml")
	mustWriteFile(t, closer, "")

	r, err := NewResolver(filepath.Join(top, "a", "b"))
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	got, err := r.Resolve(CredentialsFile)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != closer {
		t.Fatalf("expected %s, got %s", closer, got)
	}
}

func TestResolve_HoistIgnoresWrongKind(t *testing.T) {
	top := t.TempDir()
	// a directory where a file is expected must not match
	if err := os.MkdirAll(filepath.Join(top, ".batterypack", "credentials.yml"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	nested := filepath.Join(top, "sub")
	r, err := NewResolver(nested)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	got, err := r.Resolve(CredentialsFile)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := filepath.Join(nested, ".batterypack", "credentials.yml")
	if got != want {
		t.Fatalf("expected fallback %s, got %s", want, got)
	}
}

func TestNewResolver_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	r, err := NewResolver("~/project")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	got, err := r.Root()
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if got != filepath.Join(home, "project") {
		t.Fatalf("unexpected root %s", got)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "b.ts"), "b")
	mustWriteFile(t, filepath.Join(root, "a", "x.ts"), "x")
	mustWriteFile(t, filepath.Join(root, "a", "deep", "y.ts"), "y")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	var got []string
	for entry, err := range r.Walk(root) {
		if err != nil {
			t.Fatalf("walk failed: %v", err)
		}
		rel, _ := filepath.Rel(root, entry.Path)
		if entry.IsDir {
			rel += "/"
		}
		got = append(got, filepath.ToSlash(rel))
	}

	want := []string{"a/", "a/deep/", "a/deep/y.ts", "a/x.ts", "b.ts"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.ts"), "a")
	mustWriteFile(t, filepath.Join(root, "b.ts"), "b")

	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	count := 0
	for range r.Walk(root) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected walk to stop after first entry, got %d", count)
	}
}

func TestWalk_MissingBaseIsEmpty(t *testing.T) {
	r, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	for entry, err := range r.Walk(filepath.Join(t.TempDir(), "missing")) {
		t.Fatalf("expected no entries, got %v %v", entry, err)
	}
}
