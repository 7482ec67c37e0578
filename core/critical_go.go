//go:build !tinygo

package core

// Critical runs fn directly. Off target every driver callback runs on the
// caller's goroutine, so there is nothing to mask.
func Critical(fn func()) {
	fn()
}
