package flshm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	shared := keysFor(false, "S-1-5-21-1")
	assert.Equal(t, Keys{Sem: "MacromediaMutexOmega", Shm: "MacromediaFMOmega"}, shared)
	assert.Equal(t, shared, GetKeys(false))

	perUser := keysFor(true, "S-1-5-21-1")
	assert.Equal(t, perUser, keysFor(true, "S-1-5-21-1"))
	assert.NotEqual(t, shared, perUser)
	assert.NotEqual(t, perUser, keysFor(true, "S-1-5-21-2"))
	assert.Regexp(t, `^MMMutexOmega[0-9a-f]{8}$`, perUser.Sem)
	assert.Regexp(t, `^MMFMOmega[0-9a-f]{8}$`, perUser.Shm)
	assert.NotEmpty(t, currentUser())
}

func TestKeysFitKeyBuffer(t *testing.T) {
	for _, user := range []string{
		"",
		"S-1-5-18",
		"S-1-5-21-3623811015-3361044348-30300820-1013",
		currentUser(),
	} {
		for _, perUser := range []bool{false, true} {
			k := keysFor(perUser, user)
			assert.LessOrEqual(t, len(k.Sem), maxKeyLength, k.Sem)
			assert.LessOrEqual(t, len(k.Shm), maxKeyLength, k.Shm)
		}
	}
}
