package photo

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lepinkainen/truthscore/truth"
)

// Sample is a decoded still image ready for scoring.
type Sample struct {
	Image  image.Image
	Width  int
	Height int
	// Metadata maps EXIF tag names to their values. Nil when the file has no EXIF block.
	Metadata map[string]string
}

// Decoder turns a file path into a Sample.
type Decoder interface {
	Decode(path string) (*Sample, error)
}

// FileDecoder reads images from disk.
type FileDecoder struct{}

// Decode reads the whole file, decodes the pixels and extracts EXIF tags.
// A missing or unreadable EXIF block is not an error; only undecodable pixels are.
func (FileDecoder) Decode(path string) (*Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, truth.Wrap(truth.KindDecode, "photo.decode", "failed to read image", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, truth.Wrap(truth.KindDecode, "photo.decode", "failed to decode image", err)
	}

	b := img.Bounds()
	return &Sample{
		Image:    img,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Metadata: readMetadata(raw),
	}, nil
}

// readMetadata returns every EXIF field as a string, or nil when there is none.
// A broken sub-IFD (Exif, GPS, Interop) still yields the tags that did parse.
func readMetadata(raw []byte) map[string]string {
	x, err := exif.Decode(bytes.NewReader(raw))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return nil
	}

	w := metadataWalker{fields: make(map[string]string)}
	_ = x.Walk(&w)
	if len(w.fields) == 0 {
		return nil
	}
	return w.fields
}

type metadataWalker struct {
	fields map[string]string
}

func (w *metadataWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.fields[string(name)] = tagValue(tag)
	return nil
}

func tagValue(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(s, "\x00 ")
		}
	}
	return tag.String()
}

// imageExtensions lists the formats FileDecoder can read.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsImageFile checks the extension against the decodable formats.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range imageExtensions {
		if v == ext {
			return true
		}
	}
	return false
}
