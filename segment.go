package flshm

import (
	"fmt"
	"sync/atomic"
)

// Segment is an attached shared memory segment and its lock.
//
// A Segment is a view of memory owned by the operating system and shared with
// other processes. Every access other than Tick must happen between Lock and
// Unlock.
type Segment struct {
	mem    region
	plat   platform
	closed atomic.Bool
}

// Open attaches to the LocalConnection segment, creating the segment and its
// lock if they do not exist. perUser matches the ASVM isPerUser setting.
//
// The segment contents are not initialized; they are whatever the other
// participants left there.
func Open(perUser bool) (*Segment, error) {
	return OpenKeys(GetKeys(perUser))
}

// OpenKeys is like Open but with explicit keys.
func OpenKeys(keys Keys) (*Segment, error) {
	p, mem, err := openPlatform(keys)
	if err != nil {
		Info("open failed", "keys", keys, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	s, err := newSegment(mem, p)
	if err != nil {
		p.close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	Debug("segment opened", "keys", keys)
	return s, nil
}

func newSegment(mem []byte, p platform) (*Segment, error) {
	r, err := newRegion(mem)
	if err != nil {
		return nil, err
	}
	return &Segment{mem: r, plat: p}, nil
}

// Close detaches the segment and releases the lock handle.
// The operating system objects are left for the other participants.
func (s *Segment) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return s.plat.close()
}

// Lock blocks until the segment lock is acquired.
func (s *Segment) Lock() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.plat.lock(); err != nil {
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	return nil
}

// Unlock releases the segment lock.
func (s *Segment) Unlock() error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.plat.unlock(); err != nil {
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	return nil
}
