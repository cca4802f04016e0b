package canvas

import (
	"errors"
	"fmt"
	"time"
)

// NoticeDuration is how long a transient failure stays on screen.
const NoticeDuration = 4 * time.Second

var (
	// ErrStaleResponse marks a result for a superseded request. Callers
	// drop it without telling the user.
	ErrStaleResponse = errors.New("canvas: stale response")

	// ErrAnimationInterrupted reports that user input cut a fly-to short.
	ErrAnimationInterrupted = errors.New("canvas: animation interrupted")
)

// TransientFetchError wraps a failed manifest, content or activity fetch.
// The scene keeps its last good state; the failure is shown and not retried.
type TransientFetchError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransientFetchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("fetch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientFetchError; nil stays nil.
func Transient(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var tfe *TransientFetchError
	if errors.As(err, &tfe) {
		return err
	}
	return &TransientFetchError{Op: op, Path: path, Err: err}
}
