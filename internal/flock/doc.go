// Package flock provides cross-platform file locking utilities.
//
// The specification store and event log share one lock file per
// specification. Locks are exclusive and non-blocking; callers that need a
// bounded wait retry acquisition themselves (see the store's lock loop).
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - file is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
