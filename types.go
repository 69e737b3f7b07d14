package flshm

import (
	"fmt"
	"strconv"
)

// Layout of the shared memory segment.
// These values are fixed by the Flash Player implementation and must not change.
const (
	// Size is the total size of the shared memory segment.
	Size = 64528

	// TickOffset is the offset of the tick for which a message is sent.
	TickOffset = 8
	// SizeOffset is the offset at which the message body size is written.
	SizeOffset = 12
	// BodyOffset is the offset at which the message body is written.
	BodyOffset = 16
	// MaxMessageSize is the largest an encoded message body can be.
	MaxMessageSize = 40960

	// ConnectionsOffset is the offset of the connection registry.
	ConnectionsOffset = 40976
	// ConnectionsSize is the size of the connection registry.
	ConnectionsSize = 23552
	// MaxConnections is the number of connections the registry can hold.
	MaxConnections = 8
)

// Version is the ASVM message format version used by a connection.
//
//	1 = FP6
//	2 = FP7
//	3 = FP8+ or AS2
//	4 = FP9+ and AS3
type Version int32

const (
	Version1 Version = 1
	Version2 Version = 2
	Version3 Version = 3
	Version4 Version = 4
)

// Valid reports whether v is one of the four known versions.
func (v Version) Valid() bool {
	return v >= Version1 && v <= Version4
}

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// ParseVersion parses a single version digit as used by the registry and the CLI tools.
func ParseVersion(s string) (Version, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	v := Version(n)
	if !v.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidVersion, n)
	}
	return v, nil
}

// Security is the security sandbox of a message sender or a registered connection.
//
// The numbering is sparse: 4 is not assigned. Messages carry the value as an
// AMF number; the registry stores it as the digit value+1.
type Security int32

const (
	SecurityNone             Security = -1 // Default.
	SecurityRemote           Security = 0  // '1'
	SecurityLocalWithFile    Security = 1  // '2'
	SecurityLocalWithNetwork Security = 2  // '3'
	SecurityLocalTrusted     Security = 3  // '4'
	SecurityApplication      Security = 5  // '6'
)

// Known reports whether s is an assigned sandbox value.
func (s Security) Known() bool {
	switch s {
	case SecurityNone, SecurityRemote, SecurityLocalWithFile,
		SecurityLocalWithNetwork, SecurityLocalTrusted, SecurityApplication:
		return true
	}
	return false
}

func (s Security) String() string {
	switch s {
	case SecurityNone:
		return "none"
	case SecurityRemote:
		return "remote"
	case SecurityLocalWithFile:
		return "localWithFile"
	case SecurityLocalWithNetwork:
		return "localWithNetwork"
	case SecurityLocalTrusted:
		return "localTrusted"
	case SecurityApplication:
		return "application"
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ParseSecurity parses the numeric form of a sandbox value.
func ParseSecurity(str string) (Security, error) {
	n, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSandbox, str)
	}
	s := Security(n)
	if !s.Known() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSandbox, n)
	}
	return s, nil
}

// AMFVersion is the encoding of the message arguments.
type AMFVersion uint32

const (
	// AMF0 arguments are encoded in reverse order.
	AMF0 AMFVersion = 0
	// AMF3 arguments are encoded in order.
	AMF3 AMFVersion = 3
)

// Known reports whether a is AMF0 or AMF3.
func (a AMFVersion) Known() bool {
	return a == AMF0 || a == AMF3
}

func (a AMFVersion) String() string {
	return "AMF" + strconv.FormatUint(uint64(a), 10)
}

// ParseAMFVersion parses the numeric form of an AMF version.
func ParseAMFVersion(s string) (AMFVersion, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAMFVersion, s)
	}
	a := AMFVersion(n)
	if !a.Known() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAMFVersion, n)
	}
	return a, nil
}
