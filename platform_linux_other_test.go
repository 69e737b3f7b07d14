//go:build linux && !(amd64 || arm64 || riscv64 || loong64)

package flshm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenUnsupportedArchitecture(t *testing.T) {
	s, err := OpenKeys(GetKeys(false))
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrOpen)
}
