package hostfuncs

import (
	"sync"
)

// ErrorLatch records the first error set on it and ignores the rest. It lets
// a capability report a host-side problem without surfacing it into the
// environment; the session reads the latch after the call.
type ErrorLatch struct {
	mu  sync.Mutex
	err error
}

// Set latches err if no error has been latched yet. A nil err is ignored.
func (l *ErrorLatch) Set(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err == nil {
		l.err = err
	}
}

// Err returns the latched error, or nil.
func (l *ErrorLatch) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
