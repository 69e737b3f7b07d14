//go:build linux && (amd64 || arm64 || riscv64 || loong64)

package flshm

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	semUndo   = 0x1000
	semSetVal = 16
)

// How long an opener waits for a creator to finish initializing the
// semaphore before initializing it itself.
const (
	semInitPolls    = 20
	semInitInterval = 5 * time.Millisecond
)

// sembuf matches struct sembuf.
type sembuf struct {
	num uint16
	op  int16
	flg int16
}

// semidDS covers struct semid64_ds up to sem_otime. ipc64_perm is 48 bytes on
// every architecture this file builds for.
type semidDS struct {
	perm  [48]byte
	otime int64
	_     [64]byte
}

// sysvPlatform holds a SysV semaphore and a SysV segment.
type sysvPlatform struct {
	semid int
	shmid int
	mem   []byte
}

// openPlatform implementation for Linux.
func openPlatform(keys Keys) (platform, []byte, error) {
	semid, err := semOpen(keys.Sem)
	if err != nil {
		return nil, nil, err
	}
	shmid, mem, err := attachSysvShm(keys.Shm)
	if err != nil {
		return nil, nil, err
	}
	return &sysvPlatform{semid: semid, shmid: shmid, mem: mem}, mem, nil
}

// semOpen creates or opens the semaphore set for key.
//
// A new set starts at 0 with sem_otime 0. The creator sets it to 1 and then
// stamps sem_otime with a semop, so sem_otime != 0 means initialized. An
// opener that still sees 0 after a short wait takes over the initialization,
// which recovers from a creator that died between the two steps.
func semOpen(key int) (int, error) {
	id, _, errno := unix.Syscall(unix.SYS_SEMGET, uintptr(key), 1, unix.IPC_CREAT|unix.IPC_EXCL|ipcMode)
	if errno == 0 {
		if err := semInit(int(id)); err != nil {
			unix.Syscall(unix.SYS_SEMCTL, id, 0, unix.IPC_RMID)
			return 0, err
		}
		return int(id), nil
	}
	if errno != unix.EEXIST {
		return 0, fmt.Errorf("semget 0x%08x: %w", key, errno)
	}
	id, _, errno = unix.Syscall(unix.SYS_SEMGET, uintptr(key), 1, ipcMode)
	if errno != 0 {
		return 0, fmt.Errorf("semget 0x%08x: %w", key, errno)
	}

	for i := 0; i < semInitPolls; i++ {
		otime, err := semOtime(int(id))
		if err != nil {
			return 0, err
		}
		if otime != 0 {
			return int(id), nil
		}
		time.Sleep(semInitInterval)
	}
	Info("semaphore never initialized by its creator", "key", key)
	if err := semInit(int(id)); err != nil {
		return 0, err
	}
	return int(id), nil
}

// semInit sets the value to 1 and stamps sem_otime with an acquire and
// release. If someone else already holds the lock, sem_otime is set anyway.
func semInit(id int) error {
	if _, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), 0, semSetVal, 1, 0, 0); errno != 0 {
		return fmt.Errorf("semctl SETVAL %d: %w", id, errno)
	}
	p := &sysvPlatform{semid: id}
	switch err := p.semopFlags(-1, unix.IPC_NOWAIT); err {
	case nil:
		return p.semop(1)
	case unix.EAGAIN:
		return nil
	default:
		return fmt.Errorf("semop %d: %w", id, err)
	}
}

func semOtime(id int) (int64, error) {
	var ds semidDS
	if _, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), 0, unix.IPC_STAT, uintptr(unsafe.Pointer(&ds)), 0, 0); errno != 0 {
		return 0, fmt.Errorf("semctl IPC_STAT %d: %w", id, errno)
	}
	return ds.otime, nil
}

// semop applies op to the semaphore. SEM_UNDO releases the lock if the
// process dies while holding it.
func (p *sysvPlatform) semop(op int16) error {
	if err := p.semopFlags(op, 0); err != nil {
		return fmt.Errorf("semop %d: %w", p.semid, err)
	}
	return nil
}

// semopFlags retries on EINTR and returns the raw errno otherwise.
func (p *sysvPlatform) semopFlags(op int16, flags int16) error {
	sb := sembuf{num: 0, op: op, flg: semUndo | flags}
	for {
		_, _, errno := unix.Syscall(unix.SYS_SEMOP, uintptr(p.semid), uintptr(unsafe.Pointer(&sb)), 1)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return errno
		}
	}
}

func (p *sysvPlatform) lock() error {
	return p.semop(-1)
}

func (p *sysvPlatform) unlock() error {
	return p.semop(1)
}

func (p *sysvPlatform) close() error {
	err := detachSysvShm(p.mem)
	p.mem = nil
	return err
}
