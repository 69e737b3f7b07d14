package flshm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu          sync.Mutex
	received    int
	failed      int
	connections int
	lockWaits   int
}

func (o *recordingObserver) LockAcquired(time.Duration) {
	o.mu.Lock()
	o.lockWaits++
	o.mu.Unlock()
}

func (o *recordingObserver) MessageReceived(*Message) {
	o.mu.Lock()
	o.received++
	o.mu.Unlock()
}

func (o *recordingObserver) ReadFailed(error) {
	o.mu.Lock()
	o.failed++
	o.mu.Unlock()
}

func (o *recordingObserver) ConnectionsSeen(n int) {
	o.mu.Lock()
	o.connections = n
	o.mu.Unlock()
}

func TestWatcherConsumes(t *testing.T) {
	s, _ := newTestSegment(t)
	obs := &recordingObserver{}
	got := make(chan *Message, 8)

	w := NewWatcher(s, func(m *Message) { got <- m },
		WithConsume(true),
		WithObserver(obs),
		WithPollInterval(time.Millisecond),
	)
	w.Start()
	defer w.Stop()

	require.NoError(t, writeLocked(t, s, &Message{Tick: 11, Name: "a", Host: "b", Version: Version1, Method: "first"}))
	select {
	case m := <-got:
		assert.Equal(t, "first", m.Method)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for first message")
	}
	assert.Eventually(t, func() bool { return s.Tick() == 0 }, time.Second, time.Millisecond)

	// The same tick again is a new message once the slot was consumed.
	require.NoError(t, s.Lock())
	require.NoError(t, s.AddConnection(Connection{Name: "x", Version: Version1, Sandbox: SecurityNone}))
	require.NoError(t, s.Write(&Message{Tick: 11, Name: "a", Host: "b", Version: Version1, Method: "second"}))
	require.NoError(t, s.Unlock())
	select {
	case m := <-got:
		assert.Equal(t, "second", m.Method)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for second message")
	}

	w.Stop()
	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 2, obs.received)
	assert.Equal(t, 1, obs.connections)
	assert.GreaterOrEqual(t, obs.lockWaits, 2)
}

func TestWatcherPeekDeliversOnce(t *testing.T) {
	s, _ := newTestSegment(t)
	var mu sync.Mutex
	count := 0

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, writeLocked(t, s, &Message{Tick: 21, Name: "a", Host: "b", Version: Version1, Method: "m"}))
	w := NewWatcher(s, func(*Message) {
		mu.Lock()
		count++
		mu.Unlock()
	}, WithPollInterval(time.Millisecond))

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
	assert.Equal(t, uint32(21), s.Tick())
}

func TestWatcherMalformedIsCleared(t *testing.T) {
	s, _ := newTestSegment(t)
	obs := &recordingObserver{}

	require.NoError(t, s.Lock())
	copy(s.mem.body(), []byte{0xFF, 0xFF})
	s.mem.setSize(2)
	s.mem.setTick(31)
	require.NoError(t, s.Unlock())

	w := NewWatcher(s, nil, WithConsume(true), WithObserver(obs), WithPollInterval(time.Millisecond))
	w.Start()
	assert.Eventually(t, func() bool { return s.Tick() == 0 }, 2*time.Second, time.Millisecond)
	w.Stop()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.failed)
	assert.Zero(t, obs.received)
}

func TestWatcherDeliversConsumedMessageOnUnlockFailure(t *testing.T) {
	s, p := newTestSegment(t)
	require.NoError(t, writeLocked(t, s, &Message{Tick: 41, Name: "a", Host: "b", Version: Version1, Method: "kept"}))
	p.unlockErr = errors.New("semop: EINVAL")

	var got []*Message
	w := NewWatcher(s, func(m *Message) { got = append(got, m) },
		WithConsume(true),
		WithPollInterval(time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := w.Run(ctx)

	assert.ErrorIs(t, err, ErrLock)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Method)
	assert.Zero(t, s.Tick())
}
