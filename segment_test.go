package flshm

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPlatform backs a Segment with process memory and a sync.Mutex.
type memPlatform struct {
	mu        sync.Mutex
	lockErr   error
	unlockErr error
	locks     int
	unlocks   int
	closes    int
}

func (p *memPlatform) lock() error {
	if p.lockErr != nil {
		return p.lockErr
	}
	p.mu.Lock()
	p.locks++
	return nil
}

func (p *memPlatform) unlock() error {
	p.unlocks++
	p.mu.Unlock()
	return p.unlockErr
}

func (p *memPlatform) close() error {
	p.closes++
	return nil
}

func newTestSegment(t testing.TB) (*Segment, *memPlatform) {
	t.Helper()
	p := &memPlatform{}
	s, err := newSegment(make([]byte, Size), p)
	require.NoError(t, err)
	return s, p
}

func TestNewSegmentTooSmall(t *testing.T) {
	_, err := newSegment(make([]byte, Size-1), &memPlatform{})
	assert.ErrorIs(t, err, ErrSegmentTooSmall)
}

func TestLockUnlock(t *testing.T) {
	s, p := newTestSegment(t)

	require.NoError(t, s.Lock())
	require.NoError(t, s.Unlock())
	assert.Equal(t, 1, p.locks)
	assert.Equal(t, 1, p.unlocks)
}

func TestLockFailureKeepsSegmentUsable(t *testing.T) {
	s, p := newTestSegment(t)
	p.lockErr = errors.New("EIDRM")

	err := s.Lock()
	assert.ErrorIs(t, err, ErrLock)
	assert.ErrorIs(t, err, p.lockErr)

	p.lockErr = nil
	require.NoError(t, s.Lock())
	require.NoError(t, s.Unlock())
}

func TestClose(t *testing.T) {
	s, p := newTestSegment(t)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, p.closes)

	assert.ErrorIs(t, s.Close(), ErrClosed)
	assert.Equal(t, 1, p.closes)
	assert.ErrorIs(t, s.Lock(), ErrClosed)
	assert.ErrorIs(t, s.Unlock(), ErrClosed)
	assert.ErrorIs(t, s.Write(&Message{Tick: 1, Version: Version1}), ErrClosed)
	assert.Zero(t, s.Tick())
	assert.Nil(t, s.Connections())
}

func TestRegionWindows(t *testing.T) {
	r, err := newRegion(make([]byte, Size+100))
	require.NoError(t, err)

	assert.Len(t, r.mem, Size)
	assert.Len(t, r.body(), MaxMessageSize)
	assert.Equal(t, MaxMessageSize, cap(r.body()))
	assert.Len(t, r.connections(), ConnectionsSize)
	assert.Equal(t, Size, BodyOffset+MaxMessageSize+ConnectionsSize)

	r.setTick(0xAABBCCDD)
	r.setSize(7)
	assert.Equal(t, uint32(0xAABBCCDD), r.tick())
	assert.Equal(t, uint32(7), r.size())
	// Header words must not leak into the body.
	assert.Equal(t, make([]byte, MaxMessageSize), r.body())
}
