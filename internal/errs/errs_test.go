package errs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestMessage_MinimalPrintsOnlyMessage(t *testing.T) {
	err := fmt.Errorf("building: %w", Minimalf(KindConfigMissing, "batterypack configuration file is missing at %s.", "/tmp/x"))
	if !IsMinimal(err) {
		t.Fatalf("expected wrapped minimal error to stay minimal")
	}
	got := Message(err)
	if got != "batterypack configuration file is missing at /tmp/x." {
		t.Fatalf("unexpected message: %q", got)
	}
	if KindOf(err) != KindConfigMissing {
		t.Fatalf("expected config_missing kind, got %s", KindOf(err))
	}
}

func TestMessage_FullDetailIncludesChain(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(cause, KindTask, "task %q failed", "Compiling project")
	got := Message(err)
	if !strings.Contains(got, "[task] task \"Compiling project\" failed") {
		t.Fatalf("expected kind and message in %q", got)
	}
	if !strings.Contains(got, "caused by: disk on fire") {
		t.Fatalf("expected cause in %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, KindTask, "nothing") != nil {
		t.Fatalf("expected nil when wrapping nil")
	}
}

func TestIsNotExist(t *testing.T) {
	_, err := os.Stat("/definitely/not/here/batterypack")
	if !IsNotExist(fmt.Errorf("stat: %w", err)) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if IsNotExist(errors.New("other")) {
		t.Fatalf("unexpected not-exist match")
	}
}

func TestKindString(t *testing.T) {
	if KindSubprojectCycle.String() != "subproject_cycle" {
		t.Fatalf("unexpected kind name %q", KindSubprojectCycle.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Fatalf("unexpected fallback name %q", Kind(99).String())
	}
}
