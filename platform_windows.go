package flshm

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mutexPlatform holds a named mutex and a named file mapping.
type mutexPlatform struct {
	mutex   windows.Handle
	mapping windows.Handle
	addr    uintptr
}

// openPlatform implementation for Windows.
func openPlatform(keys Keys) (platform, []byte, error) {
	semName, err := windows.UTF16PtrFromString(keys.Sem)
	if err != nil {
		return nil, nil, err
	}
	shmName, err := windows.UTF16PtrFromString(keys.Shm)
	if err != nil {
		return nil, nil, err
	}

	// CreateMutex reports ERROR_ALREADY_EXISTS with a valid handle when
	// another process created it first.
	mutex, err := windows.CreateMutex(nil, false, semName)
	if mutex == 0 {
		return nil, nil, fmt.Errorf("CreateMutex %s: %w", keys.Sem, err)
	}

	mapping, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, Size, shmName)
	if mapping == 0 {
		windows.CloseHandle(mutex)
		return nil, nil, fmt.Errorf("CreateFileMapping %s: %w", keys.Shm, err)
	}

	addr, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, Size)
	if addr == 0 {
		windows.CloseHandle(mapping)
		windows.CloseHandle(mutex)
		return nil, nil, fmt.Errorf("MapViewOfFile %s: %w", keys.Shm, err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), Size)
	return &mutexPlatform{mutex: mutex, mapping: mapping, addr: addr}, mem, nil
}

// lock waits on the mutex. Mutex ownership belongs to a thread, so the
// goroutine stays on its thread until unlock.
func (p *mutexPlatform) lock() error {
	runtime.LockOSThread()
	event, err := windows.WaitForSingleObject(p.mutex, windows.INFINITE)
	switch event {
	case windows.WAIT_OBJECT_0:
		return nil
	case windows.WAIT_ABANDONED:
		// The previous owner exited without releasing; the lock is ours now.
		Info("mutex abandoned by previous owner")
		return nil
	}
	runtime.UnlockOSThread()
	if err == nil {
		err = errors.New("unexpected wait result")
	}
	return fmt.Errorf("WaitForSingleObject: %w", err)
}

func (p *mutexPlatform) unlock() error {
	err := windows.ReleaseMutex(p.mutex)
	if err != nil {
		return fmt.Errorf("ReleaseMutex: %w", err)
	}
	runtime.UnlockOSThread()
	return nil
}

func (p *mutexPlatform) close() error {
	var errs []error
	if p.addr != 0 {
		errs = append(errs, windows.UnmapViewOfFile(p.addr))
		p.addr = 0
	}
	if p.mapping != 0 {
		errs = append(errs, windows.CloseHandle(p.mapping))
		p.mapping = 0
	}
	if p.mutex != 0 {
		errs = append(errs, windows.CloseHandle(p.mutex))
		p.mutex = 0
	}
	return errors.Join(errs...)
}
