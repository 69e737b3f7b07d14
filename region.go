package flshm

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// region is a bounds-checked view over the mapped segment.
// Every codec path goes through it; nothing outside reads the mapping directly.
type region struct {
	mem []byte
}

func newRegion(mem []byte) (region, error) {
	if len(mem) < Size {
		return region{}, fmt.Errorf("%w: %d < %d", ErrSegmentTooSmall, len(mem), Size)
	}
	return region{mem: mem[:Size:Size]}, nil
}

// word returns the 32-bit header word at off.
// The mapping is page aligned so header words are naturally aligned.
func (r region) word(off int) *uint32 {
	_ = r.mem[off+3]
	return (*uint32)(unsafe.Pointer(&r.mem[off]))
}

func (r region) tick() uint32 {
	return atomic.LoadUint32(r.word(TickOffset))
}

func (r region) setTick(v uint32) {
	atomic.StoreUint32(r.word(TickOffset), v)
}

func (r region) size() uint32 {
	return atomic.LoadUint32(r.word(SizeOffset))
}

func (r region) setSize(v uint32) {
	atomic.StoreUint32(r.word(SizeOffset), v)
}

// body is the message body window. Its capacity is clamped so appends cannot
// spill into the connection registry.
func (r region) body() []byte {
	return r.mem[BodyOffset : BodyOffset+MaxMessageSize : BodyOffset+MaxMessageSize]
}

// connections is the registry window.
func (r region) connections() []byte {
	return r.mem[ConnectionsOffset : ConnectionsOffset+ConnectionsSize : ConnectionsOffset+ConnectionsSize]
}
