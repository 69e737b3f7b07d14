//go:build linux && !(amd64 || arm64 || riscv64 || loong64)

package flshm

import "errors"

// openPlatform implementation for Linux architectures without a direct semop
// system call in golang.org/x/sys/unix.
func openPlatform(keys Keys) (platform, []byte, error) {
	return nil, nil, errors.New("SysV semaphores are not supported on this architecture")
}
