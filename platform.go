package flshm

// platform is the operating system side of a Segment: the lock primitive and
// the mapping of the segment.
// (SysV semaphore on Linux, named POSIX semaphore on macOS, mutex on Windows.)
//
// openPlatform creates or opens both objects for keys, attaches the segment
// and returns its memory. On error nothing stays acquired.
type platform interface {
	// lock blocks until the lock is held by this process.
	lock() error
	// unlock releases the lock.
	unlock() error
	// close detaches the segment and closes the local handles.
	// The named objects themselves are not destroyed.
	close() error
}
