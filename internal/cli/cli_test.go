package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantao963/flshm"
)

func writeArgs(overrides map[int]string) []string {
	args := []string{"1234", "_conn", "localhost", "4", "1", "0", "1", "32", "/tmp/a.swf", "3", "ping", "0a0b0c"}
	for i, v := range overrides {
		args[i] = v
	}
	return args
}

func TestParseWriteArgs(t *testing.T) {
	msg, err := ParseWriteArgs(writeArgs(nil))
	require.NoError(t, err)

	assert.Equal(t, &flshm.Message{
		Tick:       1234,
		Name:       "_conn",
		Host:       "localhost",
		Version:    flshm.Version4,
		Sandboxed:  true,
		HTTPS:      false,
		Sandbox:    flshm.SecurityLocalWithFile,
		SWFVersion: 32,
		FilePath:   "/tmp/a.swf",
		AMFVersion: flshm.AMF3,
		Method:     "ping",
		Data:       []byte{0x0a, 0x0b, 0x0c},
	}, msg)
}

func TestParseWriteArgsErrors(t *testing.T) {
	tests := []struct {
		index int
		value string
		field string
	}{
		{0, "0", "tick"},
		{0, "abc", "tick"},
		{0, "4294967296", "tick"},
		{3, "5", "version"},
		{3, "x", "version"},
		{6, "4", "sandbox"},
		{6, "remote", "sandbox"},
		{7, "-1", "swfv"},
		{9, "1", "amfv"},
		{11, "zz", "data"},
	}
	for _, tt := range tests {
		_, err := ParseWriteArgs(writeArgs(map[int]string{tt.index: tt.value}))
		var argErr *ArgError
		require.ErrorAs(t, err, &argErr, tt.field)
		assert.Equal(t, tt.field, argErr.Field)
		assert.Equal(t, tt.value, argErr.Arg)
		assert.Equal(t, tt.field+": "+tt.value, err.Error())
	}
}

func TestParseWriteArgsTooFew(t *testing.T) {
	_, err := ParseWriteArgs(writeArgs(nil)[:WriteArgs-1])
	assert.Error(t, err)
}

func TestParseWriteArgsNegativeSandbox(t *testing.T) {
	msg, err := ParseWriteArgs(writeArgs(map[int]string{6: "-1"}))
	require.NoError(t, err)
	assert.Equal(t, flshm.SecurityNone, msg.Sandbox)
}

func TestParseSwitch(t *testing.T) {
	assert.False(t, ParseSwitch("0"))
	assert.False(t, ParseSwitch("0x"))
	assert.True(t, ParseSwitch("1"))
	assert.True(t, ParseSwitch("true"))
	assert.True(t, ParseSwitch(""))
}

func TestDecodeHex(t *testing.T) {
	b, err := DecodeHex("")
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = DecodeHex("ABcd0")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab, 0xcd}, b)

	b, err = DecodeHex("f")
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = DecodeHex("g0")
	assert.Error(t, err)
}

func TestPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	PrintMessage(&buf, &flshm.Message{
		Tick:      7,
		AMFLength: 30,
		Name:      "a",
		Host:      "b",
		Version:   flshm.Version1,
		Sandboxed: true,
		Method:    "m",
		Data:      []byte{1, 2},
	})
	assert.Equal(t, "tick: 7\namflength: 30\nname: a\nhost: b\nversion: 1\nmethod: m\ndata: 0102\n", buf.String())

	buf.Reset()
	PrintMessage(&buf, &flshm.Message{
		Tick:       8,
		Name:       "a",
		Host:       "b",
		Version:    flshm.Version4,
		HTTPS:      true,
		Sandbox:    flshm.SecurityLocalWithFile,
		SWFVersion: 10,
		FilePath:   "/f",
		AMFVersion: flshm.AMF3,
		Method:     "m",
	})
	out := buf.String()
	assert.Contains(t, out, "sandboxed: false\nhttps: true\n")
	assert.Contains(t, out, "sandbox: 1 (localWithFile)\n")
	assert.Contains(t, out, "filepath: /f\n")
	assert.Contains(t, out, "amfv: AMF3\n")
	assert.Contains(t, out, "data: \n")
}

func TestPrintConnection(t *testing.T) {
	var buf bytes.Buffer
	PrintConnection(&buf, flshm.Connection{Name: "_x", Version: flshm.Version3, Sandbox: flshm.SecurityNone})
	assert.Equal(t, "_x\t3\t-1\n", buf.String())
}
