package analyze

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/truthscore/photo"
	"github.com/lepinkainen/truthscore/video"
)

// sniffLen is the most http.DetectContentType looks at
const sniffLen = 512

// DetectContentType guesses the MIME type of a local file. Content sniffing wins
// when it recognizes an image or video; otherwise the extension decides.
func DetectContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	sniffed := http.DetectContentType(head[:n])
	if isMedia(sniffed) {
		return sniffed, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if byExt := mime.TypeByExtension(ext); isMedia(byExt) {
		return byExt, nil
	}

	// mime has no table entry for most video containers
	switch {
	case video.IsVideoFile(path):
		return "video/" + strings.TrimPrefix(ext, "."), nil
	case photo.IsImageFile(path):
		return "image/" + strings.TrimPrefix(ext, "."), nil
	}

	return sniffed, nil
}

func isMedia(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// IsMediaFile reports whether path has an image or video extension.
func IsMediaFile(path string) bool {
	return photo.IsImageFile(path) || video.IsVideoFile(path)
}
