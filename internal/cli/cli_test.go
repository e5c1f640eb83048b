package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richardkriesman/batterypack/internal/errs"
	"github.com/richardkriesman/batterypack/internal/project"
)

const testVersion = "0.9.0"

type recordedCommand struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls  []recordedCommand
	output map[string]string
	fail   map[string]error
}

func (f *fakeRunner) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.calls = append(f.calls, recordedCommand{dir: dir, name: name, args: args})
	return f.output[name], f.fail[name]
}

func (f *fakeRunner) names() []string {
	names := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		names = append(names, call.name)
	}
	return names
}

func execute(t *testing.T, runner *fakeRunner, args ...string) (string, string, error) {
	t.Helper()
	a := &app{version: testVersion}
	if runner != nil {
		a.runner = runner.run
	}
	cmd := newRootCommand(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeProject(t *testing.T, dir, name string, subprojects ...string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "batterypack:\n  version: %s\nname: %s\n", testVersion, name)
	if len(subprojects) > 0 {
		b.WriteString("subprojects:\n")
		for _, sub := range subprojects {
			fmt.Fprintf(&b, "  - %s\n", sub)
		}
	}
	mustWriteFile(t, filepath.Join(dir, "batterypack.yml"), b.String())
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, got %v", path, err)
	}
}

func TestSyncGeneratesDerivationsForEverySubproject(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "packages/lib")
	writeProject(t, filepath.Join(root, "packages", "lib"), "lib")

	_, stderr, err := execute(t, nil, "sync", "-p", root)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	for _, dir := range []string{root, filepath.Join(root, "packages", "lib")} {
		for _, name := range []string{"tsconfig.json", "jest.config.js", ".prettierrc.json", ".yarnrc.yml", ".gitignore", ".dockerignore"} {
			assertExists(t, filepath.Join(dir, name))
		}
	}
	libIndex := strings.Index(stderr, "Syncing packages/lib")
	rootIndex := strings.Index(stderr, "Syncing .")
	if libIndex < 0 || rootIndex < 0 || libIndex > rootIndex {
		t.Fatalf("expected subproject to sync before root, got:\n%s", stderr)
	}

	data, err := os.ReadFile(filepath.Join(root, "tsconfig.json"))
	if err != nil {
		t.Fatalf("failed to read tsconfig.json: %v", err)
	}
	var tsconfig map[string]any
	if err := json.Unmarshal(data, &tsconfig); err != nil {
		t.Fatalf("tsconfig.json is not JSON: %v", err)
	}
	references, ok := tsconfig["references"].([]any)
	if !ok || len(references) != 1 {
		t.Fatalf("expected one project reference, got %v", tsconfig["references"])
	}
}

func TestBuildSkipsProjectWithoutEntrypoint(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")
	runner := &fakeRunner{}

	_, stderr, err := execute(t, runner, "build", "-p", root)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(stderr, "[No source entrypoint]") {
		t.Fatalf("expected skip reason, got:\n%s", stderr)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %v", runner.names())
	}
}

func TestBuildRunsToolsThenSkipsWhenUpToDate(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "import { two } from \"./two\";\nexport const one = two;\n")
	mustWriteFile(t, filepath.Join(root, "src", "two.ts"), "export const two = 2;\n")
	runner := &fakeRunner{}

	if _, stderr, err := execute(t, runner, "build", "-p", root); err != nil {
		t.Fatalf("first build failed: %v\n%s", err, stderr)
	}
	names := runner.names()
	if len(names) != 2 || names[0] != "prettier" || names[1] != "tsc" {
		t.Fatalf("expected prettier then tsc, got %v", names)
	}
	assertExists(t, filepath.Join(root, ".batterypack", "typescript", "tsconfig.build.json"))

	runner.calls = nil
	_, stderr, err := execute(t, runner, "build", "-p", root)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}
	if !strings.Contains(stderr, "[Up-to-date]") {
		t.Fatalf("expected up-to-date skip, got:\n%s", stderr)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %v", runner.names())
	}
}

func TestBuildReportsCircularDependencies(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "import { b } from \"./b\";\nexport const a = b;\n")
	mustWriteFile(t, filepath.Join(root, "src", "b.ts"), "import { a } from \"./index\";\nexport const b = a;\n")
	runner := &fakeRunner{}

	_, _, err := execute(t, runner, "build", "-p", root)
	if err == nil {
		t.Fatalf("expected build to fail")
	}
	if errs.KindOf(err) != errs.KindCircularDependency {
		t.Fatalf("expected circular dependency error, got %v", err)
	}
	if !errs.IsMinimal(err) {
		t.Fatalf("expected minimal error, got %v", err)
	}
	if !strings.Contains(errs.Message(err), "Detected circular dependencies:") {
		t.Fatalf("unexpected message:\n%s", errs.Message(err))
	}
	for _, name := range runner.names() {
		if name == "tsc" {
			t.Fatalf("expected compile to be skipped after failure")
		}
	}
}

func TestBuildAssertFormatFails(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "export const one = 1\n")
	runner := &fakeRunner{
		output: map[string]string{"prettier": "Checking formatting...\n[warn] src/index.ts\n"},
		fail:   map[string]error{"prettier": fmt.Errorf("exit status 1")},
	}

	_, _, err := execute(t, runner, "build", "--assert-format", "-p", root)
	if errs.KindOf(err) != errs.KindFormatAssertion {
		t.Fatalf("expected format assertion error, got %v", err)
	}
	if len(runner.calls) == 0 || !containsString(runner.calls[0].args, "--check") {
		t.Fatalf("expected prettier --check, got %v", runner.calls)
	}
}

func TestCleanResetsFingerprint(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "export const one = 1;\n")
	mustWriteFile(t, filepath.Join(root, "build", "index.js"), "exports.one = 1;\n")

	p, err := project.Open(root, testVersion)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.RecordFingerprint(); err != nil {
		t.Fatalf("RecordFingerprint failed: %v", err)
	}

	if _, _, err := execute(t, nil, "clean", "-p", root); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	assertNotExists(t, filepath.Join(root, "build"))

	reopened, err := project.Open(root, testVersion)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if reopened.Internal.Data.SourceFingerprint != "" || reopened.Internal.Data.SourceFingerprintSeed != nil {
		t.Fatalf("expected fingerprint state to be cleared, got %+v", reopened.Internal.Data)
	}
}

func TestStatusJSON(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "lib")
	writeProject(t, filepath.Join(root, "lib"), "lib")
	mustWriteFile(t, filepath.Join(root, "src", "index.ts"), "export const one = 1;\n")

	stdout, _, err := execute(t, nil, "status", "--json", "-p", root)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var summary StatusSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, stdout)
	}
	if len(summary.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(summary.Projects))
	}
	if summary.Projects[0].Name != "lib" || summary.Projects[1].Name != "app" {
		t.Fatalf("expected dependency order, got %+v", summary.Projects)
	}
	rootStatus := summary.Projects[1]
	if !rootStatus.HasEntrypoint || rootStatus.UpToDate || rootStatus.SourceFiles != 1 {
		t.Fatalf("unexpected root status %+v", rootStatus)
	}
	if summary.Stale != 1 {
		t.Fatalf("expected 1 stale project, got %d", summary.Stale)
	}
}

func TestSubprojectTree(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "a", "b")
	writeProject(t, filepath.Join(root, "a"), "a", "../c")
	writeProject(t, filepath.Join(root, "b"), "b")
	writeProject(t, filepath.Join(root, "c"), "c")

	stdout, _, err := execute(t, nil, "subproject", "tree", "-p", root)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	want := "app (.)\n├── a (a)\n└── b (b)\n"
	if stdout != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", stdout, want)
	}

	stdout, _, err = execute(t, nil, "subproject", "tree", "-d", "2", "-p", root)
	if err != nil {
		t.Fatalf("tree failed: %v", err)
	}
	want = "app (.)\n├── a (a)\n│   └── c (c)\n└── b (b)\n"
	if stdout != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", stdout, want)
	}
}

func TestCredentialsSetAndList(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app")

	if _, _, err := execute(t, nil, "credentials", "set", "static-token", "-n", "npm", "--token", "abc", "-p", root); err != nil {
		t.Fatalf("set static-token failed: %v", err)
	}
	if _, _, err := execute(t, nil, "credentials", "set", "codeartifact", "-n", "aws",
		"--profile", "dev", "--domain", "acme", "--domain-owner", "123456789012", "--region", "us-east-1", "-p", root); err != nil {
		t.Fatalf("set codeartifact failed: %v", err)
	}

	stdout, _, err := execute(t, nil, "credentials", "list", "-p", root)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[1], "aws") || !strings.Contains(lines[1], "codeartifact") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "npm") || !strings.Contains(lines[2], "static-token") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestSyncUsesStaticTokenForScope(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "batterypack.yml"), fmt.Sprintf(`batterypack:
  version: %s
name: app
scopes:
  acme:
    origin: https://npm.acme.dev/
    credential: npm
`, testVersion))

	if _, _, err := execute(t, nil, "credentials", "set", "static-token", "-n", "npm", "--token", "abc", "-p", root); err != nil {
		t.Fatalf("set static-token failed: %v", err)
	}
	if _, _, err := execute(t, nil, "sync", "-p", root); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, ".yarnrc.yml"))
	if err != nil {
		t.Fatalf("failed to read .yarnrc.yml: %v", err)
	}
	if !strings.Contains(string(data), "npmAuthToken: abc") {
		t.Fatalf("expected token in .yarnrc.yml, got:\n%s", data)
	}
}

func TestTestRunsJestOnceForAllProjects(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "lib")
	writeProject(t, filepath.Join(root, "lib"), "lib")
	runner := &fakeRunner{output: map[string]string{"jest": "Tests: 3 passed\n"}}

	stdout, _, err := execute(t, runner, "test", "-p", root)
	if err != nil {
		t.Fatalf("test failed: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0].name != "jest" {
		t.Fatalf("expected a single jest run, got %v", runner.names())
	}
	args := runner.calls[0].args
	if !containsString(args, filepath.Join(root, "lib")) || !containsString(args, root) {
		t.Fatalf("expected both roots in jest args, got %v", args)
	}
	if !strings.Contains(stdout, "Tests: 3 passed") {
		t.Fatalf("expected jest output, got %q", stdout)
	}
}

func TestTimeFlagReportsDuration(t *testing.T) {
	_, stderr, err := execute(t, nil, "version", "-t")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stderr, "Command ran for ") {
		t.Fatalf("expected timing line, got %q", stderr)
	}
}

func TestTimeFlagReportsDurationOnFailure(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "missing")

	_, stderr, err := execute(t, nil, "build", "-t", "-p", root)
	if errs.KindOf(err) != errs.KindConfigMissing {
		t.Fatalf("expected missing config error, got %v", err)
	}
	if !strings.Contains(stderr, "Command ran for ") {
		t.Fatalf("expected timing line after failure, got %q", stderr)
	}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
