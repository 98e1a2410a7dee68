package dmg

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/NVIDIA/shellpack/pkg/bundler/internal"
	"github.com/NVIDIA/shellpack/pkg/bundler/result"
	"github.com/NVIDIA/shellpack/pkg/bundler/settings"
	"github.com/NVIDIA/shellpack/pkg/bundler/types"
	"github.com/NVIDIA/shellpack/pkg/errors"
	"github.com/NVIDIA/shellpack/pkg/process"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		opts ArgsOptions
		want []string
	}{
		{
			name: "minimal",
			opts: ArgsOptions{VolumeName: "App_1.2.0_x64", AppName: "App.app"},
			want: []string{
				"--volname", "App_1.2.0_x64",
				"--icon", "App.app", "180", "170",
				"--app-drop-link", "480", "170",
				"--window-size", "660", "400",
				"--hide-extension", "App.app",
				"App_1.2.0_x64.dmg", "App.app",
			},
		},
		{
			name: "all options",
			opts: ArgsOptions{
				VolumeName:  "App_1.2.0_aarch64",
				VolumeIcon:  "/abs/icons/icon.icns",
				AppName:     "App.app",
				License:     "/abs/LICENSE",
				SkipJenkins: true,
			},
			want: []string{
				"--volname", "App_1.2.0_aarch64",
				"--volicon", "/abs/icons/icon.icns",
				"--icon", "App.app", "180", "170",
				"--app-drop-link", "480", "170",
				"--window-size", "660", "400",
				"--hide-extension", "App.app",
				"--eula", "/abs/LICENSE",
				"--skip-jenkins",
				"App_1.2.0_aarch64.dmg", "App.app",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Args(tt.opts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() =\n%v\nwant\n%v", got, tt.want)
			}
		})
	}
}

// fixture builds settings, a fake app artifact and a runner that emulates
// bundle_dmg.sh by writing the dmg into its working directory.
func fixture(t *testing.T, configure func(b *settings.Builder)) (*settings.Settings, *internal.StubResolver, *internal.FakeRunner) {
	t.Helper()

	st := internal.NewTestSettings(t, "darwin", configure)
	app := filepath.Join(st.BundleDirectory(), "osx", "App.app")
	internal.WriteTestFile(t, filepath.Join(app, "Contents", "Info.plist"), "plist")

	resolver := &internal.StubResolver{Artifacts: map[types.PackageType][]result.Artifact{
		types.PackageTypeOsxBundle: {{Path: app, Type: types.PackageTypeOsxBundle}},
	}}
	runner := &internal.FakeRunner{Handler: func(cmd process.Command) (*process.Output, error) {
		dmgName := cmd.Args[len(cmd.Args)-2]
		if err := os.WriteFile(filepath.Join(cmd.Dir, dmgName), []byte("dmg:"+dmgName), 0o644); err != nil {
			return nil, err
		}
		return &process.Output{}, nil
	}}
	return st, resolver, runner
}

func TestStrategy_Bundle(t *testing.T) {
	t.Setenv("CI", "")
	st, resolver, runner := fixture(t, nil)

	arts, err := NewStrategy(runner).Bundle(context.Background(), st, resolver)
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}

	outDir := filepath.Join(st.BundleDirectory(), "dmg")
	dmgPath := filepath.Join(outDir, "app_1.2.0_x64.dmg")
	if len(arts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(arts))
	}
	if arts[0].Type != types.PackageTypeOsxBundle || arts[1].Path != dmgPath {
		t.Errorf("unexpected artifacts: %+v", arts)
	}
	if resolver.Calls(types.PackageTypeOsxBundle) != 1 {
		t.Errorf("app bundle resolved %d times", resolver.Calls(types.PackageTypeOsxBundle))
	}

	for _, f := range []string{"bundle_dmg.sh", "support/template.applescript", "support/dmg-license.py"} {
		internal.AssertFileExists(t, filepath.Join(outDir, f))
	}
	if info, err := os.Stat(filepath.Join(outDir, "bundle_dmg.sh")); err == nil && info.Mode().Perm()&0o100 == 0 {
		t.Error("bundle_dmg.sh should be executable")
	}

	cmd, ok := runner.Find(ScriptName)
	if !ok {
		t.Fatal("bundle_dmg.sh not invoked")
	}
	if cmd.Dir != filepath.Join(st.BundleDirectory(), "osx") {
		t.Errorf("tool ran in %s", cmd.Dir)
	}
	for _, a := range cmd.Args {
		if a == "--skip-jenkins" {
			t.Error("--skip-jenkins set outside CI")
		}
	}
	if _, err := os.Stat(filepath.Join(cmd.Dir, "app_1.2.0_x64.dmg")); !os.IsNotExist(err) {
		t.Error("dmg should be moved out of the app bundle directory")
	}
}

func TestStrategy_Bundle_CI(t *testing.T) {
	tests := []struct {
		ci   string
		want bool
	}{
		{ci: "true", want: true},
		{ci: "1", want: false},
		{ci: "", want: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("CI=%q", tt.ci), func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			st, resolver, runner := fixture(t, nil)

			if _, err := NewStrategy(runner).Bundle(context.Background(), st, resolver); err != nil {
				t.Fatalf("Bundle() error = %v", err)
			}
			cmd, _ := runner.Find(ScriptName)
			got := false
			for _, a := range cmd.Args {
				if a == "--skip-jenkins" {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("--skip-jenkins = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategy_Bundle_IconAndLicense(t *testing.T) {
	t.Setenv("CI", "")
	st, resolver, runner := fixture(t, func(b *settings.Builder) {
		b.Icons([]string{"icons/icon.icns"}).OSX("LICENSE", "", "")
	})

	if _, err := NewStrategy(runner).Bundle(context.Background(), st, resolver); err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}
	cmd, _ := runner.Find(ScriptName)
	joined := strings.Join(cmd.Args, " ")
	icon := filepath.Join(st.ShellDirectory(), "icons", "icon.icns")
	if !strings.Contains(joined, "--volicon "+icon) {
		t.Errorf("missing absolute --volicon in %s", joined)
	}
	if !strings.Contains(joined, "--eula "+filepath.Join(st.ShellDirectory(), "LICENSE")) {
		t.Errorf("missing --eula in %s", joined)
	}
}

func TestStrategy_Bundle_ToolFailure(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{name: "quiet", verbose: false, want: "error running bundle_dmg.sh, try running with --verbose to see command output"},
		{name: "verbose", verbose: true, want: "error running bundle_dmg.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, resolver, _ := fixture(t, func(b *settings.Builder) { b.Verbose(tt.verbose) })
			runner := &internal.FakeRunner{Handler: func(cmd process.Command) (*process.Output, error) {
				return internal.Fail(cmd, 1, "hdiutil: create failed")
			}}

			_, err := NewStrategy(runner).Bundle(context.Background(), st, resolver)
			if !errors.IsCode(err, errors.ErrCodeProcessExecution) {
				t.Fatalf("expected PROCESS_EXECUTION, got %v", err)
			}
			var se *errors.StructuredError
			if !stderrors.As(err, &se) {
				t.Fatalf("expected StructuredError, got %T", err)
			}
			if se.Message != tt.want {
				t.Errorf("message = %q, want %q", se.Message, tt.want)
			}
		})
	}
}

func TestStrategy_Bundle_ResolverFailure(t *testing.T) {
	st, _, runner := fixture(t, nil)
	resolver := &internal.StubResolver{Err: errors.New(errors.ErrCodeIO, "app bundle failed")}

	_, err := NewStrategy(runner).Bundle(context.Background(), st, resolver)
	if !errors.IsCode(err, errors.ErrCodeIO) {
		t.Errorf("expected resolver error, got %v", err)
	}
	if len(runner.Commands()) != 0 {
		t.Error("tool should not run when the app bundle fails")
	}
}

func TestStrategy_Bundle_NoResolver(t *testing.T) {
	st, _, runner := fixture(t, nil)
	if _, err := NewStrategy(runner).Bundle(context.Background(), st, nil); !errors.IsCode(err, errors.ErrCodeInternal) {
		t.Errorf("expected INTERNAL error, got %v", err)
	}
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func TestStrategy_Bundle_Rerun(t *testing.T) {
	t.Setenv("CI", "")
	st, resolver, runner := fixture(t, nil)
	s := NewStrategy(runner)
	outDir := filepath.Join(st.BundleDirectory(), "dmg")

	if _, err := s.Bundle(context.Background(), st, resolver); err != nil {
		t.Fatal(err)
	}
	first := snapshot(t, outDir)

	internal.WriteTestFile(t, filepath.Join(outDir, "leftover.txt"), "stale")
	if _, err := s.Bundle(context.Background(), st, resolver); err != nil {
		t.Fatal(err)
	}
	second := snapshot(t, outDir)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("output differs between runs:\n%v\n%v", first, second)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	e, err := LoadEnvironment()
	if err != nil {
		t.Fatal(err)
	}
	if !e.SkipJenkins() {
		t.Error("CI=true should skip jenkins")
	}
}
