package syncache

import "fmt"

// FetchError records a failed read for a key. It is stored on the entry and
// surfaced through Snapshot.Err, never thrown into a read path. The previous
// value, if any, stays visible next to it.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("syncache: fetch %q failed: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError is returned by Update after a remote write failed. By the time
// the caller sees it, rollback has already completed and the cache is
// consistent.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("syncache: write %q failed: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
