// Package lock guards an install folder against concurrent mutating runs with
// an advisory, non-blocking file lock held for the duration of one request.
package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrLocked = errors.New("another inferctl operation is running")

type Lock struct {
	path string
	f    *os.File
}

// PathFor returns the lock file used for distribution inside dir.
func PathFor(dir, distribution string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	name := strings.ToLower(strings.TrimSpace(distribution))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	return filepath.Join(dir, "inferctl-"+name+".lock")
}

// Acquire fails immediately with ErrLocked when another process (or another
// Lock in this process) holds path.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "mkdir lock dir")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		if errors.Is(err, ErrLocked) {
			return nil, errors.Wrapf(ErrLocked, "%s held by pid %s", path, readHolder(path))
		}
		return nil, errors.Wrap(err, "lock")
	}
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{path: path, f: f}, nil
}

func (l *Lock) Path() string { return l.path }

// Release is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	uerr := unlockFile(f)
	cerr := f.Close()
	if uerr != nil {
		return errors.Wrap(uerr, "unlock")
	}
	if cerr != nil {
		return errors.Wrap(cerr, "close lock file")
	}
	return nil
}

func readHolder(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return "?"
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "?"
	}
	return s
}
