package coordinator

import "sync"

// Trigger is a coalescing wake-up signal: any number of fires between two
// receives are delivered as one. Fire never blocks.
type Trigger struct {
	ch     chan struct{}
	mux    sync.RWMutex
	closed bool
}

func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{}, 1)}
}

// Fire requests a wake-up. It returns false once the trigger is closed or a
// wake-up is already pending.
func (t *Trigger) Fire() bool {
	t.mux.RLock()
	defer t.mux.RUnlock()
	if t.closed {
		return false
	}
	select {
	case t.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// C returns the channel receiving wake-ups.
func (t *Trigger) C() <-chan struct{} {
	return t.ch
}

// Close stops accepting fires. Pending wake-ups are dropped.
func (t *Trigger) Close() {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.closed = true
	select {
	case <-t.ch:
	default:
	}
}
