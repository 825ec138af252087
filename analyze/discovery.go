package analyze

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPaths replaces directory arguments with the media files found under them.
// Plain file arguments are kept as given, whatever their extension.
func ExpandPaths(paths []string) ([]string, error) {
	var expanded []string

	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if !fi.IsDir() {
			expanded = append(expanded, path)
			continue
		}

		files, err := FindMediaFilesRecursively(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		expanded = append(expanded, files...)
	}

	return expanded, nil
}

// FindMediaFilesRecursively lists image and video files below directory, sorted.
func FindMediaFilesRecursively(directory string) ([]string, error) {
	var files []string
	var err error

	// Use fd if available for better performance, otherwise fall back to filepath.WalkDir
	if isFdAvailable() {
		files, err = findMediaFilesWithFd(directory)
		if err != nil {
			files, err = findMediaFilesWithWalkDir(directory)
		}
	} else {
		files, err = findMediaFilesWithWalkDir(directory)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isFdAvailable checks if the 'fd' command is available in PATH
func isFdAvailable() bool {
	_, err := exec.LookPath("fd")
	return err == nil
}

func findMediaFilesWithWalkDir(directory string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMediaFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}

func findMediaFilesWithFd(directory string) ([]string, error) {
	// --no-ignore keeps results identical to the WalkDir fallback
	cmd := exec.Command("fd", "--type", "f", "--no-ignore", "--hidden", ".", directory)
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" && IsMediaFile(line) {
			files = append(files, filepath.Clean(line))
		}
	}

	return files, nil
}
