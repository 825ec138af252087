package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// videoTools are the binaries video scoring shells out to
var videoTools = []string{"ffprobe", "ffmpeg"}

// MissingTools returns the names from tools that are not in PATH
func MissingTools(tools ...string) []string {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}

// ValidateFFmpegDependencies checks if ffmpeg and ffprobe are available in PATH
func ValidateFFmpegDependencies() error {
	return missingToolsError(MissingTools(videoTools...))
}

func missingToolsError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s not found in PATH, video scoring is unavailable. %s",
		strings.Join(missing, " and "), getInstallationInstructions())
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}
