// Package cli holds the argument parsing and output shared by the flshm tools.
package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fantao963/flshm"
	"github.com/fantao963/flshm/internal/config"
	"github.com/fantao963/flshm/internal/logging"
)

// WriteUsage lists the positional arguments of flshm-write.
const WriteUsage = "tick name host version sandboxed https sandbox swfv filepath amfv method data"

// WriteArgs is the number of positional arguments flshm-write takes.
const WriteArgs = 12

// ArgError reports a command line argument that could not be parsed.
type ArgError struct {
	Field string
	Arg   string
}

func (e *ArgError) Error() string {
	return e.Field + ": " + e.Arg
}

// Setup loads the environment configuration and builds the tool logger.
// The logger is also handed to the flshm package, which only uses it in
// flshm_debug builds.
func Setup() (*config.Config, *zap.Logger) {
	cfg := config.LoadOrDefault()
	log := logging.NewOrNop(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	flshm.SetLogger(log)
	return cfg, log
}

// ParseWriteArgs builds a message from the flshm-write positional arguments.
// Fields that the chosen version does not carry are parsed but not checked
// against it.
func ParseWriteArgs(args []string) (*flshm.Message, error) {
	if len(args) < WriteArgs {
		return nil, fmt.Errorf("want %d arguments, got %d", WriteArgs, len(args))
	}

	tick, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || tick == 0 {
		return nil, &ArgError{"tick", args[0]}
	}
	version, err := flshm.ParseVersion(args[3])
	if err != nil {
		return nil, &ArgError{"version", args[3]}
	}
	sandbox, err := flshm.ParseSecurity(args[6])
	if err != nil {
		return nil, &ArgError{"sandbox", args[6]}
	}
	swfv, err := strconv.ParseUint(args[7], 10, 32)
	if err != nil {
		return nil, &ArgError{"swfv", args[7]}
	}
	amfv, err := flshm.ParseAMFVersion(args[9])
	if err != nil {
		return nil, &ArgError{"amfv", args[9]}
	}
	data, err := DecodeHex(args[11])
	if err != nil {
		return nil, &ArgError{"data", args[11]}
	}

	return &flshm.Message{
		Tick:       uint32(tick),
		Name:       args[1],
		Host:       args[2],
		Version:    version,
		Sandboxed:  ParseSwitch(args[4]),
		HTTPS:      ParseSwitch(args[5]),
		Sandbox:    sandbox,
		SWFVersion: uint32(swfv),
		FilePath:   args[8],
		AMFVersion: amfv,
		Method:     args[10],
		Data:       data,
	}, nil
}

// ParseSwitch treats anything not starting with '0' as true.
func ParseSwitch(s string) bool {
	return !strings.HasPrefix(s, "0")
}

// DecodeHex decodes hex data, dropping a trailing odd nibble.
func DecodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		s = s[:len(s)-1]
	}
	return hex.DecodeString(s)
}

// PrintMessage writes msg one field per line. Fields the message version does
// not carry are omitted.
func PrintMessage(w io.Writer, msg *flshm.Message) {
	fmt.Fprintf(w, "tick: %d\n", msg.Tick)
	fmt.Fprintf(w, "amflength: %d\n", msg.AMFLength)
	fmt.Fprintf(w, "name: %s\n", msg.Name)
	fmt.Fprintf(w, "host: %s\n", msg.Host)
	fmt.Fprintf(w, "version: %s\n", msg.Version)
	if msg.Version >= flshm.Version2 {
		fmt.Fprintf(w, "sandboxed: %t\n", msg.Sandboxed)
		fmt.Fprintf(w, "https: %t\n", msg.HTTPS)
	}
	if msg.Version >= flshm.Version3 {
		fmt.Fprintf(w, "sandbox: %d (%s)\n", int32(msg.Sandbox), msg.Sandbox)
		fmt.Fprintf(w, "swfv: %d\n", msg.SWFVersion)
		if msg.Sandbox == flshm.SecurityLocalWithFile {
			fmt.Fprintf(w, "filepath: %s\n", msg.FilePath)
		}
	}
	if msg.Version >= flshm.Version4 {
		fmt.Fprintf(w, "amfv: %s\n", msg.AMFVersion)
	}
	fmt.Fprintf(w, "method: %s\n", msg.Method)
	fmt.Fprintf(w, "data: %s\n", hex.EncodeToString(msg.Data))
}

// PrintConnection writes c as a single tab separated line.
func PrintConnection(w io.Writer, c flshm.Connection) {
	fmt.Fprintf(w, "%s\t%s\t%d\n", c.Name, c.Version, int32(c.Sandbox))
}
