package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/process"
)

// FakeRunner records commands instead of executing them.
// Handler, when set, emulates the tool: it may create output files and
// decides the returned output and error.
type FakeRunner struct {
	Handler func(cmd process.Command) (*process.Output, error)

	mu       sync.Mutex
	commands []process.Command
}

// Run records cmd and delegates to Handler.
func (f *FakeRunner) Run(_ context.Context, cmd process.Command) (*process.Output, error) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	if f.Handler == nil {
		return &process.Output{}, nil
	}
	return f.Handler(cmd)
}

// Commands returns a copy of the recorded commands.
func (f *FakeRunner) Commands() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]process.Command, len(f.commands))
	copy(out, f.commands)
	return out
}

// Names returns the recorded command names in call order.
func (f *FakeRunner) Names() []string {
	cmds := f.Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// Find returns the first recorded command whose name or first argument has
// the given base name. Scripts run through bash are matched by argument.
func (f *FakeRunner) Find(name string) (process.Command, bool) {
	for _, c := range f.Commands() {
		if filepath.Base(c.Name) == name {
			return c, true
		}
		if len(c.Args) > 0 && filepath.Base(c.Args[0]) == name {
			return c, true
		}
	}
	return process.Command{}, false
}

// Fail returns a handler output and error shaped like a real failing process.
func Fail(cmd process.Command, exitCode int, stderr string) (*process.Output, error) {
	out := &process.Output{Stderr: []byte(stderr), ExitCode: exitCode}
	return out, process.Failure(cmd, out, fmt.Errorf("exit status %d", exitCode))
}

// StubResolver returns fixed artifacts per package type and counts calls.
type StubResolver struct {
	Artifacts map[types.PackageType][]result.Artifact
	Err       error

	mu    sync.Mutex
	calls map[types.PackageType]int
}

// Resolve returns the configured artifacts for pt.
func (r *StubResolver) Resolve(_ context.Context, pt types.PackageType) ([]result.Artifact, error) {
	r.mu.Lock()
	if r.calls == nil {
		r.calls = make(map[types.PackageType]int)
	}
	r.calls[pt]++
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	arts, ok := r.Artifacts[pt]
	if !ok {
		return nil, fmt.Errorf("no stub artifacts for %s", pt)
	}
	return arts, nil
}

// Calls returns how many times pt was resolved.
func (r *StubResolver) Calls(pt types.PackageType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[pt]
}

// NewTestSettings builds settings rooted in a temporary app directory and
// writes a placeholder compiled binary. configure may adjust the builder
// before Build.
func NewTestSettings(t *testing.T, goos string, configure func(b *settings.Builder)) *settings.Settings {
	t.Helper()

	root := t.TempDir()
	shell := filepath.Join(root, "src-shell")
	if err := os.MkdirAll(shell, 0o755); err != nil {
		t.Fatalf("failed to create shell dir: %v", err)
	}

	b := settings.NewBuilder().
		Dirs(root, shell).
		Target(goos, settings.ArchX86_64).
		Package("App", "app", "1.2.0").
		Identifier("com.example.app")
	if configure != nil {
		configure(b)
	}

	s, err := b.Build()
	if err != nil {
		t.Fatalf("settings Build() error = %v", err)
	}

	WriteTestFile(t, s.BinaryPath(), "binary")
	return s
}

// WriteTestFile writes content to path, creating parent directories.
func WriteTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// AssertFileExists fails the test when path does not exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file %s not found", path)
	}
}
