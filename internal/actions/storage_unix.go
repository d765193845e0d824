//go:build !windows

package actions

import "golang.org/x/sys/unix"

// freeSpace reports bytes available to an unprivileged user on path's
// filesystem, backing the spec §7 kind 6 storage pre-flight check.
func freeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
