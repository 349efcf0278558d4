package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/dshills/mathfield/internal/config"
)

func newTestApp(t *testing.T, toml string, opts Options) *Application {
	t.Helper()
	if toml != "" {
		opts.ConfigPath = filepath.Join(t.TempDir(), "mathedit.toml")
		if err := os.WriteFile(opts.ConfigPath, []byte(toml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if opts.LogOutput == nil {
		opts.LogOutput = &bytes.Buffer{}
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

func runScript(t *testing.T, a *Application, script string) []string {
	t.Helper()
	var out bytes.Buffer
	if err := a.Run(context.Background(), strings.NewReader(script), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

const noCoalesce = "[undo]\ncoalesce_ms = 0\n"

func TestRun_Script(t *testing.T) {
	a := newTestApp(t, noCoalesce, Options{})
	script := `# build x+y, then replace it
type x
type +y
select all
type z

undo
undo
undo
undo
redo
bogus
move sideways
quit
type never
`
	want := []string{
		"x\tbody:1",
		"x+y\tbody:3",
		"x+y\tbody:0#3",
		"z\tbody:1",
		"x+y\tbody:0#3",
		"x\tbody:1",
		"\tbody:0",
		"error: line 10: undo: nothing to undo",
		"x\tbody:1",
		"error: line 12: bogus: unknown action",
		`error: line 13: move: bad argument: "sideways"`,
	}
	if diff := cmp.Diff(want, runScript(t, a, script)); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
	if a.Failures() != 3 {
		t.Errorf("Failures = %d, want 3", a.Failures())
	}
}

func runLua(t *testing.T, a *Application, script string) []string {
	t.Helper()
	var out bytes.Buffer
	if err := a.RunLua(context.Background(), "edit.lua", strings.NewReader(script), &out); err != nil {
		t.Fatalf("RunLua: %v", err)
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestRunLua_Script(t *testing.T) {
	a := newTestApp(t, noCoalesce, Options{})
	script := `mf.type("x")
mf.type("+y")
local ok, err = mf.move("sideways")
assert(ok == nil and err:find("bad argument"))
for _ = 1, 2 do mf.undo() end
print(mf.value(), mf.selection(), mf.mode())
mf.quit()
mf.type("never")
`
	want := []string{
		"x\tbody:1",
		"x+y\tbody:3",
		`error: line 3: move: bad argument: "sideways"`,
		"x\tbody:1",
		"\tbody:0",
		"\tbody:0\tmath",
	}
	if diff := cmp.Diff(want, runLua(t, a, script)); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
	if a.Failures() != 1 {
		t.Errorf("Failures = %d, want 1", a.Failures())
	}
}

func TestExec_Errors(t *testing.T) {
	a := newTestApp(t, "", Options{})
	tests := []struct {
		line string
		want error
	}{
		{"frobnicate", ErrUnknownAction},
		{"delete sideways", ErrBadArgument},
		{"move left", ErrRefused},
		{"row after", ErrRefused},
		{"fence x", ErrBadArgument},
		{"style colour=red", ErrBadArgument},
		{"mode command", ErrBadArgument},
		{"quit", ErrQuit},
	}
	for _, tt := range tests {
		_, err := a.Exec(1, tt.line)
		if !errors.Is(err, tt.want) {
			t.Errorf("Exec(%q) = %v, want %v", tt.line, err, tt.want)
		}
	}
}

func TestRun_CommandMode(t *testing.T) {
	a := newTestApp(t, "", Options{})
	out := runScript(t, a, "cmd frac\ncomplete\n")
	if len(out) != 2 {
		t.Fatalf("output = %q", out)
	}
	if !strings.HasSuffix(out[0], "\t[command]") {
		t.Errorf("command mode not shown: %q", out[0])
	}
	if !strings.HasPrefix(out[1], `\frac`) {
		t.Errorf("completed value = %q", out[1])
	}
	if a.Model().InCommandMode() || a.Failures() != 0 {
		t.Errorf("in command mode %v, failures %d", a.Model().InCommandMode(), a.Failures())
	}
}

func TestRun_Arrays(t *testing.T) {
	a := newTestApp(t, "", Options{})
	out := runScript(t, a, `set \begin{matrix}a\end{matrix}
select body:1/cell0,0:1
row after
col remove
`)
	want := []string{
		`\begin{matrix}a\end{matrix}` + "\tbody:1",
		`\begin{matrix}a\end{matrix}` + "\tbody:1/cell0,0:1",
		`\begin{matrix}a\\\end{matrix}` + "\tbody:1/cell1,0:0",
		`error: line 4: col: operation refused`,
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output (-want +got):\n%s", diff)
	}
}

func TestApplyConfig(t *testing.T) {
	a := newTestApp(t, "", Options{})
	if !a.Model().Settings().SmartFence {
		t.Fatal("smart fence off by default")
	}
	cfg := config.Default()
	cfg.Editor.SmartFence = false
	cfg.Log.Level = "debug"
	a.applyConfig(cfg, nil)
	if a.Model().Settings().SmartFence {
		t.Error("reloaded settings not applied")
	}
	if !a.level.Enabled(zap.DebugLevel) {
		t.Error("log level not raised to debug")
	}

	a.applyConfig(config.Default(), errors.New("broken file"))
	if a.Config().Editor.SmartFence {
		t.Error("a failed reload replaced the configuration")
	}
}

func TestNew_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[editor]\ninsert_mode = \"sideways\"\n"), 0o644)
	if _, err := New(Options{ConfigPath: path}); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("New = %v", err)
	}
}

func TestVerboseLogging(t *testing.T) {
	var logs bytes.Buffer
	a := newTestApp(t, "", Options{Verbose: true, LogOutput: &logs})
	runScript(t, a, "type q\n")
	if !strings.Contains(logs.String(), "action") || !strings.Contains(logs.String(), `"name": "type"`) {
		t.Errorf("debug log missing the action:\n%s", logs.String())
	}
	a.Shutdown()
	if !strings.Contains(logs.String(), "session ended") || !strings.Contains(logs.String(), `"events"`) {
		t.Errorf("debug log missing the hub stats:\n%s", logs.String())
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()
	if len(usage) != len(actions) {
		t.Fatalf("Usage has %d lines for %d actions", len(usage), len(actions))
	}
	for name := range actions {
		found := false
		for _, u := range usage {
			if strings.HasPrefix(u, name) {
				found = true
			}
		}
		if !found {
			t.Errorf("no usage line for %q", name)
		}
	}
}
