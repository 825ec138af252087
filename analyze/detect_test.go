package analyze

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 8, 8))))
}

func TestDetectContentType(t *testing.T) {
	dir := t.TempDir()

	// Content wins over a misleading extension.
	disguised := filepath.Join(dir, "photo.bin")
	writePNG(t, disguised)
	ct, err := DetectContentType(disguised)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	// Unknown bytes fall back to the extension.
	clip := filepath.Join(dir, "clip.mkv")
	require.NoError(t, os.WriteFile(clip, make([]byte, 64), 0644))
	ct, err = DetectContentType(clip)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "video/"), "got %s", ct)

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("just some text"), 0644))
	ct, err = DetectContentType(notes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "text/plain"), "got %s", ct)

	empty := filepath.Join(dir, "empty.dat")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	ct, err = DetectContentType(empty)
	require.NoError(t, err)
	assert.False(t, isMedia(ct))

	_, err = DetectContentType(filepath.Join(dir, "missing.jpg"))
	assert.Error(t, err)
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, IsMediaFile("a.JPG"))
	assert.True(t, IsMediaFile("dir/b.webp"))
	assert.True(t, IsMediaFile("c.mp4"))
	assert.False(t, IsMediaFile("d.txt"))
	assert.False(t, IsMediaFile("noext"))
}
