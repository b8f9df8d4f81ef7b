package rpcclient

import "errors"

// Progress is the long-running-operation callback: invoked with the
// current step and the operation's start/end bounds. Returning false
// cancels the operation, which unwinds with ErrCancelled before its
// next network step. There is no implicit timeout; bounded latency is
// the callback's job.
type Progress func(current, start, end uint64) bool

// ErrCancelled is returned when a progress callback stops an operation.
var ErrCancelled = errors.New("operation cancelled by progress callback")

// step reports one checkpoint to the callback, if any.
func (c *Client) step(current, end uint64) error {
	if c.progress == nil {
		return nil
	}
	if !c.progress(current, 0, end) {
		return ErrCancelled
	}
	return nil
}
