package wsl

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEnvironmentUnavailable = errors.New("system has no support for WSL")
	ErrDistributionNotFound   = errors.New("WSL distribution is not available")
	ErrExeNotFound            = errors.New("unable to find wsl.exe")
)

// PathTranslationError reports a host path without a mapping into the
// distribution.
type PathTranslationError struct {
	Path string
	Err  error
}

func (e *PathTranslationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not find WSL directory for: %s", e.Path)
	}
	return fmt.Sprintf("could not find WSL directory for: %s: %v", e.Path, e.Err)
}

func (e *PathTranslationError) Unwrap() error { return e.Err }
