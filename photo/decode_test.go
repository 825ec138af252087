package photo

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tagMake       = 0x010F
	tagSoftware   = 0x0131
	tagGPSPointer = 0x8825

	tiffASCII = 2
	tiffLong  = 4
)

type ifdEntry struct {
	id    uint16
	ascii string
	long  uint32
}

// tiffBlob builds a big-endian TIFF stream holding a single IFD.
func tiffBlob(entries ...ifdEntry) []byte {
	be := binary.BigEndian
	dataStart := 8 + 2 + 12*len(entries) + 4

	var ifd, data bytes.Buffer
	_ = binary.Write(&ifd, be, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&ifd, be, e.id)
		if e.ascii == "" {
			_ = binary.Write(&ifd, be, uint16(tiffLong))
			_ = binary.Write(&ifd, be, uint32(1))
			_ = binary.Write(&ifd, be, e.long)
			continue
		}

		value := append([]byte(e.ascii), 0)
		_ = binary.Write(&ifd, be, uint16(tiffASCII))
		_ = binary.Write(&ifd, be, uint32(len(value)))
		if len(value) <= 4 {
			var inline [4]byte
			copy(inline[:], value)
			ifd.Write(inline[:])
			continue
		}
		_ = binary.Write(&ifd, be, uint32(dataStart+data.Len()))
		data.Write(value)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&ifd, be, uint32(0))

	var out bytes.Buffer
	out.WriteString("MM\x00\x2a")
	_ = binary.Write(&out, be, uint32(8))
	out.Write(ifd.Bytes())
	out.Write(data.Bytes())
	return out.Bytes()
}

// writeExifJPEG encodes img and inserts an APP1 Exif segment right after SOI.
func writeExifJPEG(t *testing.T, img image.Image, tiffData []byte) string {
	t.Helper()

	var encoded bytes.Buffer
	require.NoError(t, jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 95}))
	raw := encoded.Bytes()
	require.Equal(t, []byte{0xFF, 0xD8}, raw[:2])

	payload := append([]byte("Exif\x00\x00"), tiffData...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write(segment)
	out.Write(raw[2:])

	path := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o600))
	return path
}

func TestFileDecoder_JPEGWithExif(t *testing.T) {
	tests := []struct {
		name      string
		entries   []ifdEntry
		wantMake  string
		wantScore int
	}{
		{
			name:      "camera tags only",
			entries:   []ifdEntry{{id: tagMake, ascii: "Canon"}},
			wantMake:  "Canon",
			wantScore: 100,
		},
		{
			name: "edited in photoshop",
			entries: []ifdEntry{
				{id: tagMake, ascii: "Canon"},
				{id: tagSoftware, ascii: "Adobe Photoshop 2024"},
			},
			wantMake:  "Canon",
			wantScore: 50,
		},
		{
			name: "broken gps sub-directory keeps the main tags",
			entries: []ifdEntry{
				{id: tagMake, ascii: "Canon"},
				{id: tagGPSPointer, long: 0x00FFFFF0},
			},
			wantMake:  "Canon",
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeExifJPEG(t, checkerboard(600, 600), tiffBlob(tt.entries...))

			sample, err := FileDecoder{}.Decode(path)
			require.NoError(t, err)
			require.NotNil(t, sample.Metadata)
			assert.Equal(t, tt.wantMake, sample.Metadata["Make"])
			assert.Equal(t, 600, sample.Width)

			report, err := NewScorer(FileDecoder{}, nil).Score(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, report.Score, "deductions: %v", report.Deductions)
		})
	}
}

func TestFileDecoder_SoftwareTagTrimmed(t *testing.T) {
	path := writeExifJPEG(t, checkerboard(64, 64), tiffBlob(
		ifdEntry{id: tagMake, ascii: "Nikon"},
		ifdEntry{id: tagSoftware, ascii: "Adobe Photoshop CC"},
	))

	sample, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "Adobe Photoshop CC", sample.Metadata["Software"])
	assert.Equal(t, "Nikon", sample.Metadata["Make"])
}

func TestFileDecoder_JPEGWithoutExif(t *testing.T) {
	var encoded bytes.Buffer
	require.NoError(t, jpeg.Encode(&encoded, checkerboard(32, 32), nil))
	path := filepath.Join(t.TempDir(), "plain.jpg")
	require.NoError(t, os.WriteFile(path, encoded.Bytes(), 0o600))

	sample, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Nil(t, sample.Metadata)
}
