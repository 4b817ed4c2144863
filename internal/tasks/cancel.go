package tasks

import "sync/atomic"

// CancelToken is a cooperative cancellation flag shared between the batch
// controller and its workers.
//
// Reads are lock-free and safe from any goroutine. Cancel is idempotent:
// once set the token never reverts for the lifetime of the batch. Workers
// poll the token at natural boundaries (before starting a queued task, after
// a fetch, before each upload); in-flight work is never preempted.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the token. Calling it more than once has the same effect as
// calling it once.
func (c *CancelToken) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (c *CancelToken) Cancelled() bool {
	return c.flag.Load()
}
