// Package flshm reads and writes the shared memory used by the Flash Player
// LocalConnection mechanism.
//
// Participants attach to one fixed-layout segment of Size bytes and a paired
// lock. The segment holds a single message slot, written by one process and
// consumed by another, and a registry of up to MaxConnections connection
// names.
//
// Layout:
//
//	0      reserved
//	8      tick (uint32, 0 = no message)
//	12     message body size (uint32)
//	16     message body (up to MaxMessageSize bytes)
//	40976  connection registry (ConnectionsSize bytes)
//
// Every access except Tick must be made while holding the lock:
//
//	seg, err := flshm.Open(false)
//	if err != nil {
//		return err
//	}
//	defer seg.Close()
//
//	if err := seg.Lock(); err != nil {
//		return err
//	}
//	msg, err := seg.Read()
//	seg.Clear()
//	seg.Unlock()
//
// Lock has no timeout. A process that dies while holding the lock blocks the
// others on macOS. On Linux the kernel undoes its hold, and on Windows the
// abandoned mutex passes to the next waiter.
package flshm
