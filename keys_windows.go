package flshm

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/windows"
)

const (
	mutexName   = "MacromediaMutexOmega"
	mappingName = "MacromediaFMOmega"

	// Per-user names are a short prefix plus 8 hex digits of the user hash,
	// keeping both within the 23 byte key buffer.
	perUserMutexPrefix   = "MMMutexOmega"
	perUserMappingPrefix = "MMFMOmega"

	maxKeyLength = 23
)

// Keys are the names of the mutex and the file mapping.
type Keys struct {
	Sem string
	Shm string
}

func (k Keys) String() string {
	return fmt.Sprintf("sem=%s shm=%s", k.Sem, k.Shm)
}

// GetKeys returns the keys for the shared or the per-user channel.
func GetKeys(perUser bool) Keys {
	return keysFor(perUser, currentUser())
}

func keysFor(perUser bool, user string) Keys {
	if !perUser {
		return Keys{Sem: mutexName, Shm: mappingName}
	}
	suffix := userHash(user)
	return Keys{Sem: perUserMutexPrefix + suffix, Shm: perUserMappingPrefix + suffix}
}

// userHash folds a user identity of any length into 8 hex digits.
func userHash(user string) string {
	return fmt.Sprintf("%08x", uint32(xxhash.Sum64String(user)))
}

// currentUser returns the SID of the process token, or the user name if the
// token cannot be read.
func currentUser() string {
	tu, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err == nil {
		return tu.User.Sid.String()
	}
	return os.Getenv("USERNAME")
}
