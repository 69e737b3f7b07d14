package flshm

/*
#include <errno.h>
#include <fcntl.h>
#include <semaphore.h>
#include <stdlib.h>

// Helper to open the named semaphore, created unlocked.
// Returns NULL instead of SEM_FAILED.
sem_t* flshm_sem_open(const char* name) {
	sem_t* sem = sem_open(name, O_CREAT, 0666, 1);
	if (sem == SEM_FAILED) {
		return NULL;
	}
	return sem;
}

// Helper for a wait that survives signals.
int flshm_sem_wait(sem_t* sem) {
	int r;
	do {
		r = sem_wait(sem);
	} while (r == -1 && errno == EINTR);
	return r == -1 ? errno : 0;
}

int flshm_sem_post(sem_t* sem) {
	return sem_post(sem) == -1 ? errno : 0;
}
*/
import "C"
import (
	"fmt"
	"syscall"
	"unsafe"
)

// posixPlatform holds a named POSIX semaphore and a SysV segment.
type posixPlatform struct {
	sem   *C.sem_t
	shmid int
	mem   []byte
}

// openPlatform implementation for macOS.
func openPlatform(keys Keys) (platform, []byte, error) {
	cName := C.CString(keys.Sem)
	defer C.free(unsafe.Pointer(cName))

	sem, errno := C.flshm_sem_open(cName)
	if sem == nil {
		return nil, nil, fmt.Errorf("sem_open %s: %w", keys.Sem, errno)
	}

	shmid, mem, err := attachSysvShm(keys.Shm)
	if err != nil {
		C.sem_close(sem)
		return nil, nil, err
	}
	return &posixPlatform{sem: sem, shmid: shmid, mem: mem}, mem, nil
}

func (p *posixPlatform) lock() error {
	if errno := C.flshm_sem_wait(p.sem); errno != 0 {
		return fmt.Errorf("sem_wait: %w", syscall.Errno(errno))
	}
	return nil
}

func (p *posixPlatform) unlock() error {
	if errno := C.flshm_sem_post(p.sem); errno != 0 {
		return fmt.Errorf("sem_post: %w", syscall.Errno(errno))
	}
	return nil
}

func (p *posixPlatform) close() error {
	err := detachSysvShm(p.mem)
	p.mem = nil
	if p.sem != nil {
		C.sem_close(p.sem)
		p.sem = nil
	}
	return err
}
