//go:build !windows

package mmdbreader

import "golang.org/x/sys/unix"

// mmap maps fd's first length bytes into memory read-only.
func mmap(fd int, length int) ([]byte, error) {
	return unix.Mmap(fd, 0, length, unix.PROT_READ, unix.MAP_SHARED)
}

// munmap unmaps a region previously returned by mmap.
func munmap(b []byte) error {
	return unix.Munmap(b)
}
