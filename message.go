package flshm

import (
	"fmt"
	"math"
	"time"
)

// Message is a pending LocalConnection call.
//
// Which fields are carried depends on Version; fields a version does not
// carry are ignored by Write and left at their defaults by Read.
type Message struct {
	// Tick is the timestamp of the message. Zero means no message.
	Tick uint32
	// AMFLength is the length of the whole encoded body. Set by Read.
	AMFLength uint32
	// Name is the sending connection name.
	Name string
	// Host is the sending connection host.
	Host string
	// Version selects the set of fields below.
	Version Version

	// Sandboxed is set if the sender is sandboxed (SWF7 or higher). Version2+.
	Sandboxed bool
	// HTTPS is set if the sending origin uses HTTPS. Version2+.
	HTTPS bool

	// Sandbox is the sender security sandbox. Version3+.
	Sandbox Security
	// SWFVersion is the sender SWF version. Version3+.
	SWFVersion uint32
	// FilePath is the sender file path. Version3+ and Sandbox == SecurityLocalWithFile.
	FilePath string

	// AMFVersion is the encoding of Data. Version4+.
	AMFVersion AMFVersion

	// Method is the method to be called by the receiver.
	Method string
	// Data holds the encoded method arguments.
	Data []byte
}

// NewTick generates a message tick from the current time.
// It can return 0 in theory, which callers must not write.
func NewTick() uint32 {
	return uint32(time.Now().UnixMilli())
}

func (m *Message) validate() error {
	if m.Tick == 0 {
		return ErrInvalidTick
	}
	if !m.Version.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, m.Version)
	}
	if m.Version >= Version3 && !m.Sandbox.Known() {
		return fmt.Errorf("%w: %d", ErrInvalidSandbox, m.Sandbox)
	}
	if m.Version >= Version4 && !m.AMFVersion.Known() {
		return fmt.Errorf("%w: %d", ErrInvalidAMFVersion, m.AMFVersion)
	}
	return nil
}

// EncodeMessage encodes the body of msg as it is stored after BodyOffset.
// The size limit is not checked here.
func EncodeMessage(msg *Message) ([]byte, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}

	w := amfWriter{buf: make([]byte, 0, 64+len(msg.Data))}
	if err := w.writeString(msg.Name); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if err := w.writeString(msg.Host); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	if msg.Version >= Version2 {
		w.writeBoolean(msg.Sandboxed)
		w.writeBoolean(msg.HTTPS)
	}
	if msg.Version >= Version3 {
		w.writeNumber(float64(msg.Sandbox))
		w.writeNumber(float64(msg.SWFVersion))
		if msg.Sandbox == SecurityLocalWithFile {
			if err := w.writeString(msg.FilePath); err != nil {
				return nil, fmt.Errorf("filepath: %w", err)
			}
		}
	}
	if msg.Version >= Version4 {
		w.writeNumber(float64(msg.AMFVersion))
	}
	if err := w.writeString(msg.Method); err != nil {
		return nil, fmt.Errorf("method: %w", err)
	}
	w.buf = append(w.buf, msg.Data...)
	return w.buf, nil
}

// DecodeMessage decodes a message body.
//
// The version is not stored in the body; it is recovered from the type
// markers that follow the host. The returned message owns all of its memory.
func DecodeMessage(tick uint32, body []byte) (*Message, error) {
	msg := &Message{
		Tick:       tick,
		AMFLength:  uint32(len(body)),
		Version:    Version1,
		Sandbox:    SecurityNone,
		AMFVersion: AMF0,
	}
	r := amfReader{buf: body}

	var err error
	if msg.Name, err = r.readString(); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	if msg.Host, err = r.readString(); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	if r.next(amfBoolean) {
		msg.Version = Version2
		if msg.Sandboxed, err = r.readBoolean(); err != nil {
			return nil, fmt.Errorf("sandboxed: %w", err)
		}
		if msg.HTTPS, err = r.readBoolean(); err != nil {
			return nil, fmt.Errorf("https: %w", err)
		}

		if r.next(amfNumber) {
			msg.Version = Version3
			sandbox, err := r.readInteger(math.MinInt32, math.MaxInt32)
			if err != nil {
				return nil, fmt.Errorf("sandbox: %w", err)
			}
			msg.Sandbox = Security(sandbox)
			swfv, err := r.readInteger(0, math.MaxUint32)
			if err != nil {
				return nil, fmt.Errorf("swfv: %w", err)
			}
			msg.SWFVersion = uint32(swfv)
			if msg.Sandbox == SecurityLocalWithFile {
				if msg.FilePath, err = r.readString(); err != nil {
					return nil, fmt.Errorf("filepath: %w", err)
				}
			}

			if r.next(amfNumber) {
				msg.Version = Version4
				amfv, err := r.readInteger(0, math.MaxUint32)
				if err != nil {
					return nil, fmt.Errorf("amfv: %w", err)
				}
				msg.AMFVersion = AMFVersion(amfv)
			}
		}
	}

	if msg.Method, err = r.readString(); err != nil {
		return nil, fmt.Errorf("method: %w", err)
	}
	msg.Data = r.rest()
	return msg, nil
}

// Tick reads the current message tick. It returns 0 if no message is pending.
// It is the one read that may be done without holding the lock.
func (s *Segment) Tick() uint32 {
	if s.closed.Load() {
		return 0
	}
	return s.mem.tick()
}

// Read decodes the pending message. The caller must hold the lock.
// It returns nil and no error if no message is pending.
func (s *Segment) Read() (*Message, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	tick := s.mem.tick()
	if tick == 0 {
		return nil, nil
	}
	size := s.mem.size()
	if size > MaxMessageSize {
		return nil, fmt.Errorf("%w: size %d exceeds %d", ErrMalformedMessage, size, MaxMessageSize)
	}
	msg, err := DecodeMessage(tick, s.mem.body()[:size])
	if err != nil {
		Debug("message decode failed", "tick", tick, "size", size, "err", err)
		return nil, err
	}
	return msg, nil
}

// Write stores msg as the pending message. The caller must hold the lock.
//
// The body and size are stored before the tick so a reader polling Tick
// never sees a tick for a partially written body. On error the segment is
// left untouched.
func (s *Segment) Write(msg *Message) error {
	if s.closed.Load() {
		return ErrClosed
	}
	body, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	if len(body) > MaxMessageSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(body), MaxMessageSize)
	}
	copy(s.mem.body(), body)
	s.mem.setSize(uint32(len(body)))
	s.mem.setTick(msg.Tick)
	Debug("message written", "tick", msg.Tick, "size", len(body), "method", msg.Method)
	return nil
}

// Clear erases the pending message by zeroing the tick and size.
// The body bytes are left in place. The caller must hold the lock.
func (s *Segment) Clear() {
	if s.closed.Load() {
		return
	}
	s.mem.setTick(0)
	s.mem.setSize(0)
}

// Consume reads the pending message and clears it. The message is cleared
// even when it cannot be decoded, so a malformed message does not stay
// pending. The caller must hold the lock.
func (s *Segment) Consume() (*Message, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.mem.tick() == 0 {
		return nil, nil
	}
	msg, err := s.Read()
	s.Clear()
	return msg, err
}
