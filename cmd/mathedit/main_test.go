package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Stdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader("type x\ntype +1\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	want := "x\tbody:1\nx+1\tbody:3\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRun_ScriptFileAndFailures(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "edit.txt")
	if err := os.WriteFile(script, []byte("type a\nmove nowhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{script}, nil, &stdout, &stderr); code != 1 {
		t.Errorf("exit code %d, want 1 after a failed line", code)
	}
	if !strings.Contains(stdout.String(), "error: line 2: move") {
		t.Errorf("stdout = %q", stdout.String())
	}

	if code := run([]string{filepath.Join(dir, "missing.txt")}, nil, &stdout, &stderr); code != 1 {
		t.Errorf("missing script exit code %d", code)
	}
}

func TestRun_LuaScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "edit.lua")
	src := "for _, c in ipairs({\"a\", \"b\"}) do mf.type(c) end\nmf.move(\"nowhere\")\n"
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{script}, nil, &stdout, &stderr); code != 1 {
		t.Errorf("exit code %d, want 1 after a failed action", code)
	}
	want := "a\tbody:1\nab\tbody:2\nerror: line 2: move: bad argument: \"nowhere\"\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}

	broken := filepath.Join(t.TempDir(), "broken.lua")
	os.WriteFile(broken, []byte("mf.type("), 0o644)
	stderr.Reset()
	if code := run([]string{broken}, nil, &stdout, &stderr); code != 1 || !strings.Contains(stderr.String(), "lua script failed") {
		t.Errorf("broken script: code %d, stderr %q", code, stderr.String())
	}
}

func TestRun_Flags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-version"}, nil, &stdout, &stderr); code != 0 || !strings.HasPrefix(stdout.String(), "mathedit ") {
		t.Errorf("-version: code %d, stdout %q", code, stdout.String())
	}
	if code := run([]string{"-h"}, nil, &stdout, &stderr); code != 0 || !strings.Contains(stderr.String(), "undo") {
		t.Errorf("-h: code %d, usage %q", code, stderr.String())
	}
	if code := run([]string{"-nope"}, nil, &stdout, &stderr); code != 2 {
		t.Errorf("unknown flag exit code %d", code)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(bad, []byte("[log]\nlevel = \"shouting\"\n"), 0o644)
	if code := run([]string{"-config", bad}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("invalid config exit code %d", code)
	}
}
