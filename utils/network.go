package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// networkPrefixes are common mount points for network shares
var networkPrefixes = []string{
	"/mnt/",     // Linux NFS/SMB mounts
	"/media/",   // Linux removable/network media
	"/Volumes/", // macOS network volumes
}

// networkIndicators hint at a network filesystem somewhere in the path
var networkIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

// IsNetworkDrive detects if a file path is on a network-mounted drive
func IsNetworkDrive(filePath string) bool {
	// UNC paths must be checked before filepath.Abs rewrites them
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range networkIndicators {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// AnyNetworkDrive reports whether any of files is on a network-mounted drive
func AnyNetworkDrive(files []string) bool {
	for _, file := range files {
		if IsNetworkDrive(file) {
			return true
		}
	}
	return false
}

// DefaultWorkers picks the worker count for scoring files: the requested value when
// positive, one worker when any file sits on a network drive, otherwise one per CPU.
func DefaultWorkers(requested int, files []string) int {
	if requested > 0 {
		return requested
	}
	if AnyNetworkDrive(files) {
		return 1
	}
	return runtime.NumCPU()
}
