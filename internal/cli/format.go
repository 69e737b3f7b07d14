package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/fantao963/flshm"
)

// Output formats accepted by the -format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return true
	}
	return false
}

// Record is the machine-readable form of a message. Fields a version does not
// carry are left out.
type Record struct {
	Tick       uint32  `json:"tick" yaml:"tick" toml:"tick"`
	AMFLength  uint32  `json:"amflength" yaml:"amflength" toml:"amflength"`
	Name       string  `json:"name" yaml:"name" toml:"name"`
	Host       string  `json:"host" yaml:"host" toml:"host"`
	Version    int32   `json:"version" yaml:"version" toml:"version"`
	Sandboxed  *bool   `json:"sandboxed,omitempty" yaml:"sandboxed,omitempty" toml:"sandboxed,omitempty"`
	HTTPS      *bool   `json:"https,omitempty" yaml:"https,omitempty" toml:"https,omitempty"`
	Sandbox    *int32  `json:"sandbox,omitempty" yaml:"sandbox,omitempty" toml:"sandbox,omitempty"`
	SWFVersion *uint32 `json:"swfv,omitempty" yaml:"swfv,omitempty" toml:"swfv,omitempty"`
	FilePath   string  `json:"filepath,omitempty" yaml:"filepath,omitempty" toml:"filepath,omitempty"`
	AMFVersion *uint32 `json:"amfv,omitempty" yaml:"amfv,omitempty" toml:"amfv,omitempty"`
	Method     string  `json:"method" yaml:"method" toml:"method"`
	Data       string  `json:"data" yaml:"data" toml:"data"`
}

// NewRecord converts msg. Data is hex encoded.
func NewRecord(msg *flshm.Message) Record {
	r := Record{
		Tick:      msg.Tick,
		AMFLength: msg.AMFLength,
		Name:      msg.Name,
		Host:      msg.Host,
		Version:   int32(msg.Version),
		Method:    msg.Method,
		Data:      hex.EncodeToString(msg.Data),
	}
	if msg.Version >= flshm.Version2 {
		sandboxed, https := msg.Sandboxed, msg.HTTPS
		r.Sandboxed, r.HTTPS = &sandboxed, &https
	}
	if msg.Version >= flshm.Version3 {
		sandbox, swfv := int32(msg.Sandbox), msg.SWFVersion
		r.Sandbox, r.SWFVersion = &sandbox, &swfv
		if msg.Sandbox == flshm.SecurityLocalWithFile {
			r.FilePath = msg.FilePath
		}
	}
	if msg.Version >= flshm.Version4 {
		amfv := uint32(msg.AMFVersion)
		r.AMFVersion = &amfv
	}
	return r
}

// ConnectionRecord is the machine-readable form of a registry entry.
type ConnectionRecord struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Version int32  `json:"version" yaml:"version" toml:"version"`
	Sandbox int32  `json:"sandbox" yaml:"sandbox" toml:"sandbox"`
}

// NewConnectionRecords converts a registry listing.
func NewConnectionRecords(list []flshm.Connection) []ConnectionRecord {
	out := make([]ConnectionRecord, 0, len(list))
	for _, c := range list {
		out = append(out, ConnectionRecord{Name: c.Name, Version: int32(c.Version), Sandbox: int32(c.Sandbox)})
	}
	return out
}

// FormatMessage writes msg in the given format.
func FormatMessage(w io.Writer, msg *flshm.Message, format string) error {
	if format == FormatText {
		PrintMessage(w, msg)
		return nil
	}
	return encode(w, NewRecord(msg), format)
}

// FormatConnections writes a registry listing in the given format.
func FormatConnections(w io.Writer, list []flshm.Connection, format string) error {
	if format == FormatText {
		for _, c := range list {
			PrintConnection(w, c)
		}
		return nil
	}
	// TOML documents need a table at the top level.
	return encode(w, struct {
		Connections []ConnectionRecord `json:"connections" yaml:"connections" toml:"connections"`
	}{NewConnectionRecords(list)}, format)
}

func encode(w io.Writer, v any, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = sonic.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatTOML:
		data, err = toml.Marshal(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
