package flshm

import (
	"runtime"
	"sync/atomic"
)

// WaitStrategy polls a condition with an adaptive spin before falling back to
// a sleep. Hits grow the spin budget, misses shrink it, so a busy channel is
// polled tightly and an idle one mostly sleeps.
type WaitStrategy struct {
	CurrentLimit int32
	MinSpin      int32
	MaxSpin      int32
	IncStep      int32
	DecStep      int32
}

// NewWaitStrategy creates a WaitStrategy tuned for polling a message tick.
func NewWaitStrategy() *WaitStrategy {
	return &WaitStrategy{
		CurrentLimit: 64,
		MinSpin:      0,
		MaxSpin:      1024,
		IncStep:      64,
		DecStep:      32,
	}
}

// Wait spins on condition up to the current limit, then runs sleepAction and
// checks condition once more. It reports whether condition was met.
func (w *WaitStrategy) Wait(condition func() bool, sleepAction func()) bool {
	limit := atomic.LoadInt32(&w.CurrentLimit)

	for i := int32(0); i < limit; i++ {
		if condition() {
			w.adjust(limit, true)
			return true
		}
		if i&0x3F == 0 {
			runtime.Gosched()
		}
	}
	w.adjust(limit, false)

	sleepAction()
	return condition()
}

func (w *WaitStrategy) adjust(limit int32, hit bool) {
	var next int32
	if hit {
		next = min(limit+w.IncStep, w.MaxSpin)
	} else {
		next = max(limit-w.DecStep, w.MinSpin)
	}
	if next != limit {
		atomic.StoreInt32(&w.CurrentLimit, next)
	}
}
