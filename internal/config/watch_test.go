package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type reload struct {
	cfg Config
	err error
}

func startWatch(t *testing.T, path string) <-chan reload {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan reload, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config, err error) {
			select {
			case got <- reload{cfg, err}:
			default:
			}
		}, WithDebounce(20*time.Millisecond))
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	})
	// Give the watcher time to register before the test writes.
	time.Sleep(100 * time.Millisecond)
	return got
}

// waitReload returns the first reload accepted by ok. A single write can
// be reported more than once.
func waitReload(t *testing.T, got <-chan reload, ok func(reload) bool) reload {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-got:
			if ok(r) {
				return r
			}
		case <-timeout:
			t.Fatal("no matching reload after the file changed")
			return reload{}
		}
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathedit.toml")
	if err := os.WriteFile(path, []byte("[undo]\nmax_entries = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := startWatch(t, path)

	if err := os.WriteFile(path, []byte("[undo]\nmax_entries = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitReload(t, got, func(r reload) bool {
		return r.err == nil && r.cfg.Undo.MaxEntries == 9
	})

	if err := os.WriteFile(path, []byte("[undo]\nmax_entries = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitReload(t, got, func(r reload) bool {
		return errors.Is(r.err, ErrValidationFailed)
	})
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "mathedit.toml")
	err := Watch(context.Background(), path, func(Config, error) {})
	if err == nil {
		t.Fatal("watching a missing directory succeeded")
	}
}
