//go:build linux || darwin

package flshm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ipcMode lets every user reach the objects, as the Flash Player does.
const ipcMode = 0o666

// attachSysvShm creates or opens the SysV segment for key and attaches it.
func attachSysvShm(key int) (int, []byte, error) {
	id, err := unix.SysvShmGet(key, Size, unix.IPC_CREAT|ipcMode)
	if err != nil {
		return 0, nil, fmt.Errorf("shmget 0x%08x: %w", key, err)
	}
	mem, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return 0, nil, fmt.Errorf("shmat %d: %w", id, err)
	}
	if len(mem) < Size {
		unix.SysvShmDetach(mem)
		return 0, nil, fmt.Errorf("shmat %d: %w: %d bytes", id, ErrSegmentTooSmall, len(mem))
	}
	return id, mem, nil
}

func detachSysvShm(mem []byte) error {
	if mem == nil {
		return nil
	}
	if err := unix.SysvShmDetach(mem); err != nil {
		return fmt.Errorf("shmdt: %w", err)
	}
	return nil
}
