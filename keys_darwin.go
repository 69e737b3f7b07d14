package flshm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// sysvKey is "SAND", the SysV IPC key used by the Flash Player.
	sysvKey = 0x53414E44
	// semName is the named semaphore of the shared channel.
	semName = "MacromediaSemaphoreDig"
	// perUserSemPrefix keeps per-user names within the 23 byte key buffer.
	perUserSemPrefix = "MMSemaphore"
)

// Keys are the semaphore name and the SysV key of the segment.
type Keys struct {
	Sem string
	Shm int
}

func (k Keys) String() string {
	return fmt.Sprintf("sem=%s shm=0x%08x", k.Sem, k.Shm)
}

// GetKeys returns the keys for the shared or the per-user channel.
func GetKeys(perUser bool) Keys {
	return keysFor(perUser, os.Getuid())
}

func keysFor(perUser bool, uid int) Keys {
	if !perUser {
		return Keys{Sem: semName, Shm: sysvKey}
	}
	return Keys{
		Sem: perUserSemPrefix + strconv.FormatUint(uint64(uint32(uid)), 10),
		Shm: int(int32(uint32(sysvKey) + uint32(uid) + 1)),
	}
}
