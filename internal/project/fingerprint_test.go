package project

import (
	"os"
	"path/filepath"
	"testing"
)

func newSourceProject(t *testing.T) (string, *Project) {
	t.Helper()
	root := t.TempDir()
	writeConfig(t, root, "demo")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "export const a = 1;\n")
	mustWriteFile(t, filepath.Join(root, "src", "lib", "util.ts"), "export const b = 2;\n")
	return root, mustOpen(t, root)
}

func mustFingerprint(t *testing.T, p *Project) string {
	t.Helper()
	fp, err := p.SourceFingerprint()
	if err != nil {
		t.Fatalf("SourceFingerprint failed: %v", err)
	}
	return fp
}

func TestFingerprint_StableWithoutChanges(t *testing.T) {
	root, p := newSourceProject(t)
	first := mustFingerprint(t, p)
	second := mustFingerprint(t, p)
	if first != second {
		t.Fatalf("expected stable fingerprint, got %s then %s", first, second)
	}

	// a fresh open reads the persisted seed
	third := mustFingerprint(t, mustOpen(t, root))
	if first != third {
		t.Fatalf("expected fingerprint to survive reopen, got %s then %s", first, third)
	}
}

func TestFingerprint_SensitiveToContent(t *testing.T) {
	root, p := newSourceProject(t)
	before := mustFingerprint(t, p)
	mustWriteFile(t, filepath.Join(root, "src", "lib", "util.ts"), "export const b = 3;\n")
	after := mustFingerprint(t, p)
	if before == after {
		t.Fatalf("expected content change to change fingerprint")
	}
}

func TestFingerprint_SensitiveToRename(t *testing.T) {
	root, p := newSourceProject(t)
	before := mustFingerprint(t, p)
	if err := os.Rename(filepath.Join(root, "src", "lib", "util.ts"), filepath.Join(root, "src", "lib", "helpers.ts")); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	after := mustFingerprint(t, p)
	if before == after {
		t.Fatalf("expected rename to change fingerprint")
	}
}

func TestFingerprint_SeedDrivesDeterminism(t *testing.T) {
	root, p := newSourceProject(t)
	if err := p.RecordFingerprint(); err != nil {
		t.Fatalf("RecordFingerprint failed: %v", err)
	}
	recorded := p.Internal.Data.SourceFingerprint
	seed := p.Internal.Data.SourceFingerprintSeed
	if seed == nil || *seed >= 1<<48 {
		t.Fatalf("expected a 48-bit seed, got %v", seed)
	}

	reopened := mustOpen(t, root)
	reopened.Internal.Data.SourceFingerprint = ""
	if err := reopened.Internal.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := mustFingerprint(t, mustOpen(t, root)); got != recorded {
		t.Fatalf("expected %s after dropping only the fingerprint, got %s", recorded, got)
	}
}

func TestFingerprint_DifferentSeedsDiffer(t *testing.T) {
	_, p := newSourceProject(t)
	a := uint64(1)
	p.Internal.Data.SourceFingerprintSeed = &a
	first := mustFingerprint(t, p)
	b := uint64(2)
	p.Internal.Data.SourceFingerprintSeed = &b
	second := mustFingerprint(t, p)
	if first == second {
		t.Fatalf("expected seed to influence fingerprint")
	}
}

func TestIsUpToDate(t *testing.T) {
	root, p := newSourceProject(t)
	upToDate, _, err := p.IsUpToDate()
	if err != nil {
		t.Fatalf("IsUpToDate failed: %v", err)
	}
	if upToDate {
		t.Fatalf("expected a never-built project to be stale")
	}

	if err := p.RecordFingerprint(); err != nil {
		t.Fatalf("RecordFingerprint failed: %v", err)
	}
	upToDate, _, err = mustOpen(t, root).IsUpToDate()
	if err != nil {
		t.Fatalf("IsUpToDate failed: %v", err)
	}
	if !upToDate {
		t.Fatalf("expected project to be up to date after recording")
	}

	mustWriteFile(t, filepath.Join(root, "src", "new.ts"), "export {};\n")
	upToDate, _, err = mustOpen(t, root).IsUpToDate()
	if err != nil {
		t.Fatalf("IsUpToDate failed: %v", err)
	}
	if upToDate {
		t.Fatalf("expected new file to make the project stale")
	}
}
