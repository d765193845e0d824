//go:build windows

package actions

import "golang.org/x/sys/windows"

// freeSpace reports bytes available to the caller on path's volume.
func freeSpace(path string) (uint64, error) {
	var freeBytes, totalBytes, totalFreeBytes uint64
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytes, &totalBytes, &totalFreeBytes); err != nil {
		return 0, err
	}
	return freeBytes, nil
}
