package sio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestWatch(t *testing.T) {
	var (
		dir      = t.TempDir()
		filename = filepath.Join(dir, "lib.yaml")
		other    = filepath.Join(dir, "other.yaml")
		reloads  = make(chan bool, 8)
	)
	if err := os.WriteFile(filename, []byte("dicta: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- Watch(ctx, zaptest.NewLogger(t), []string{filename}, func() error {
			reloads <- true
			return nil
		})
	}()

	// Give the watcher a chance to start.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filename, []byte("dicta: []\nname: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), nil, []string{"/no/such/dir/lib.yaml"}, func() error { return nil })
	if err == nil {
		t.Fatal("expected an error")
	}
}
