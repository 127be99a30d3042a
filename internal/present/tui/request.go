package tui

import "context"

// inflight tracks the single outstanding request a screen owns.
// Starting a new request cancels the previous one; results carrying an
// older sequence number are stale and must be dropped.
type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

func (f *inflight) begin(parent context.Context) (context.Context, uint64) {
	f.stop()
	ctx, cancel := context.WithCancel(parent)
	f.seq++
	f.cancel = cancel
	return ctx, f.seq
}

// done releases the context of the request with sequence seq and reports
// whether it is still the current one.
func (f *inflight) done(seq uint64) bool {
	if seq != f.seq {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return true
}

func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *inflight) pending() bool { return f.cancel != nil }
