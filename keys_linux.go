package flshm

import (
	"fmt"
	"os"
)

// sysvKey is "SAND", the SysV IPC key used by the Flash Player.
const sysvKey = 0x53414E44

// Keys are the SysV IPC keys of the semaphore and the segment.
type Keys struct {
	Sem int
	Shm int
}

func (k Keys) String() string {
	return fmt.Sprintf("sem=0x%08x shm=0x%08x", k.Sem, k.Shm)
}

// GetKeys returns the keys for the shared or the per-user channel.
func GetKeys(perUser bool) Keys {
	return keysFor(perUser, os.Getuid())
}

func keysFor(perUser bool, uid int) Keys {
	if !perUser {
		return Keys{Sem: sysvKey, Shm: sysvKey}
	}
	k := perUserKey(uid)
	return Keys{Sem: k, Shm: k}
}

// perUserKey offsets the base key by uid+1 so uid 0 does not collide with the
// shared key.
func perUserKey(uid int) int {
	return int(int32(uint32(sysvKey) + uint32(uid) + 1))
}
