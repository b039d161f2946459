package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockTimeout is returned when another writer holds the lock too long
var ErrLockTimeout = errors.New("timed out waiting for lock")

const lockPollInterval = 20 * time.Millisecond

type lockInfo struct {
	PID        int       `json:"pid"`
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// FileLock serialises read-modify-write cycles on a shared file across
// processes. The lock is a sibling "<file>.lock" created with O_EXCL.
type FileLock struct {
	path     string
	timeout  time.Duration
	staleAge time.Duration
	// token identifies this holder; writers in one process share a PID
	token string
}

// NewFileLock creates a lock for target
func NewFileLock(target string, timeout, staleAge time.Duration) *FileLock {
	return &FileLock{
		path:     target + ".lock",
		timeout:  timeout,
		staleAge: staleAge,
	}
}

// Acquire blocks until the lock is held or the timeout expires. Locks left
// by dead processes or older than the stale age are removed.
func (l *FileLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	deadline := time.Now().Add(l.timeout)
	for {
		err := l.tryCreate()
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock file: %w", err)
		}

		st, err := os.Stat(l.path)
		if os.IsNotExist(err) {
			// released between our create and stat
			continue
		}
		if err == nil && l.isStale(st) {
			os.Remove(l.path)
			continue
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, l.path)
		}
		time.Sleep(lockPollInterval)
	}
}

// Release removes the lock if this FileLock still owns it. A lock that was
// broken as stale and taken by another writer is left alone.
func (l *FileLock) Release() error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""

	info, err := readLockInfo(l.path)
	if err != nil || info.Token != token {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func (l *FileLock) tryCreate() error {
	token, err := newLockToken()
	if err != nil {
		return fmt.Errorf("generate lock token: %w", err)
	}

	// O_CREATE|O_EXCL fails if another writer created the file first
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	data, _ := json.Marshal(lockInfo{PID: os.Getpid(), Token: token, AcquiredAt: time.Now()})
	_, werr := f.Write(data)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(l.path)
		return fmt.Errorf("write lock file: %w", werr)
	}
	l.token = token
	return nil
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func readLockInfo(path string) (lockInfo, error) {
	var info lockInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(data, &info)
	return info, err
}

func (l *FileLock) isStale(st os.FileInfo) bool {
	if time.Since(st.ModTime()) > l.staleAge {
		return true
	}

	info, err := readLockInfo(l.path)
	if err != nil {
		// the owner may not have written its info yet
		return false
	}
	return !processAlive(info.PID)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix FindProcess always succeeds; signal 0 checks existence
	return process.Signal(syscall.Signal(0)) == nil
}
