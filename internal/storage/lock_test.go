package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLock_AcquireRelease(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ledger.json")
	lock := NewFileLock(target, time.Second, time.Minute)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := os.Stat(target + ".lock"); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
		t.Error("expected lock file removed")
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second release should be a no-op: %v", err)
	}
}

func TestFileLock_TimesOutWhileHeld(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ledger.json")
	first := NewFileLock(target, time.Second, time.Minute)
	if err := first.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer first.Release()

	second := NewFileLock(target, 100*time.Millisecond, time.Minute)
	err := second.Acquire()
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
}

func TestFileLock_BreaksStaleLocks(t *testing.T) {
	tests := []struct {
		name  string
		info  lockInfo
		mtime time.Time
	}{
		{"dead owner", lockInfo{PID: 999999999, AcquiredAt: time.Now()}, time.Now()},
		{"too old", lockInfo{PID: os.Getpid(), AcquiredAt: time.Now()}, time.Now().Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "ledger.json")
			data, _ := json.Marshal(tt.info)
			if err := os.WriteFile(target+".lock", data, 0644); err != nil {
				t.Fatalf("seed lock: %v", err)
			}
			if err := os.Chtimes(target+".lock", tt.mtime, tt.mtime); err != nil {
				t.Fatalf("chtimes: %v", err)
			}

			lock := NewFileLock(target, 500*time.Millisecond, time.Minute)
			if err := lock.Acquire(); err != nil {
				t.Fatalf("expected stale lock to be broken: %v", err)
			}
			lock.Release()
		})
	}
}

func TestFileLock_ReleaseKeepsLockTakenByAnotherWriter(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ledger.json")
	first := NewFileLock(target, time.Second, time.Minute)
	if err := first.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// another writer judged the lock stale, removed it and took it over
	if err := os.Remove(target + ".lock"); err != nil {
		t.Fatal(err)
	}
	second := NewFileLock(target, time.Second, time.Minute)
	if err := second.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(target + ".lock"); err != nil {
		t.Fatalf("expected the new owner's lock to survive: %v", err)
	}

	if err := second.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
		t.Errorf("expected lock to be removed by its owner, got %v", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "deep", "file.json")

	if err := WriteFileAtomic(path, []byte("{}\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil || string(content) != "{}\n" {
		t.Fatalf("expected content, got %q err=%v", content, err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "sub", "deep", "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files should not remain: %v", leftovers)
	}
}
