package flshm

import (
	"bytes"
	"fmt"
)

// MaxConnectionNameLength is the longest connection name the registry accepts.
const MaxConnectionNameLength = 255

// connectionSlotSize is the size of each of the MaxConnections registry slots.
const connectionSlotSize = ConnectionsSize / MaxConnections

// Connection is a registered connection name with its ASVM version and sandbox.
type Connection struct {
	// Name is the connection name.
	Name string
	// Version is the ASVM version (FP7+).
	Version Version
	// Sandbox is the security sandbox (FP9+).
	Sandbox Security
}

// ConnectionNameValid reports whether name can be registered.
//
// A name is 1 to MaxConnectionNameLength printable ASCII characters with no
// spaces, and must not begin with ':' since entry metadata uses that prefix.
func ConnectionNameValid(name string) bool {
	if len(name) == 0 || len(name) > MaxConnectionNameLength {
		return false
	}
	if name[0] == ':' {
		return false
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

func (c Connection) validate() error {
	if !ConnectionNameValid(c.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, c.Name)
	}
	if !c.Version.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, c.Version)
	}
	if !c.Sandbox.Known() {
		return fmt.Errorf("%w: %d", ErrInvalidSandbox, c.Sandbox)
	}
	return nil
}

// encodeConnection lays out an entry as NUL-terminated strings:
//
//	name "\0" [ "::" version "\0" [ "::" sandbox+1 "\0" ] ]
//
// The version marker is written whenever a sandbox follows it.
func encodeConnection(c Connection) []byte {
	buf := make([]byte, 0, len(c.Name)+9)
	buf = append(buf, c.Name...)
	buf = append(buf, 0)
	if c.Version >= Version2 || c.Sandbox != SecurityNone {
		buf = append(buf, ':', ':', byte('0'+c.Version), 0)
	}
	if c.Sandbox != SecurityNone {
		buf = append(buf, ':', ':', byte('0'+c.Sandbox+1), 0)
	}
	return buf
}

// decodeConnection parses one registry slot. ok is false for a free slot.
func decodeConnection(slot []byte) (c Connection, ok bool) {
	if len(slot) == 0 || slot[0] == 0 {
		return Connection{}, false
	}
	fields := bytes.Split(slot, []byte{0})
	c = Connection{
		Name:    string(fields[0]),
		Version: Version1,
		Sandbox: SecurityNone,
	}

	var meta []byte
	for _, f := range fields[1:] {
		if len(f) != 3 || f[0] != ':' || f[1] != ':' || f[2] < '0' || f[2] > '9' {
			break
		}
		meta = append(meta, f[2])
	}
	if len(meta) > 0 {
		c.Version = Version(meta[0] - '0')
	}
	if len(meta) > 1 {
		c.Sandbox = Security(meta[1]-'0') - 1
	}
	return c, true
}

func (r region) slot(i int) []byte {
	off := i * connectionSlotSize
	return r.connections()[off : off+connectionSlotSize : off+connectionSlotSize]
}

// Connections lists the registered connections in slot order.
// The caller should hold the lock for a consistent snapshot. Names are copied
// out of shared memory and stay valid after unlock.
func (s *Segment) Connections() []Connection {
	if s.closed.Load() {
		return nil
	}
	list := make([]Connection, 0, MaxConnections)
	for i := 0; i < MaxConnections; i++ {
		if c, ok := decodeConnection(s.mem.slot(i)); ok {
			list = append(list, c)
		}
	}
	return list
}

// AddConnection registers c in the first free slot. The caller must hold the
// lock across the call so the duplicate check and the insert are atomic.
func (s *Segment) AddConnection(c Connection) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := c.validate(); err != nil {
		return err
	}

	free := -1
	for i := 0; i < MaxConnections; i++ {
		existing, ok := decodeConnection(s.mem.slot(i))
		if !ok {
			if free < 0 {
				free = i
			}
			continue
		}
		if existing.Name == c.Name {
			return fmt.Errorf("%w: %q", ErrConnectionExists, c.Name)
		}
	}
	if free < 0 {
		return ErrConnectionsFull
	}

	slot := s.mem.slot(free)
	n := copy(slot, encodeConnection(c))
	clear(slot[n:])
	Debug("connection added", "name", c.Name, "slot", free)
	return nil
}

// RemoveConnection unregisters the connection with the name of c.
// Only the slot is freed; the other entries keep their slots.
func (s *Segment) RemoveConnection(c Connection) error {
	if s.closed.Load() {
		return ErrClosed
	}
	for i := 0; i < MaxConnections; i++ {
		slot := s.mem.slot(i)
		existing, ok := decodeConnection(slot)
		if ok && existing.Name == c.Name {
			slot[0] = 0
			Debug("connection removed", "name", c.Name, "slot", i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrConnectionNotFound, c.Name)
}
