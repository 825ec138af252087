package photo

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/truthscore/truth"
)

type fakeDecoder struct {
	sample *Sample
	err    error
}

func (f fakeDecoder) Decode(string) (*Sample, error) {
	return f.sample, f.err
}

func checkerboard(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/2+y/2)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func flat(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 90
	}
	return img
}

func sampleOf(img *image.Gray, metadata map[string]string) *Sample {
	b := img.Bounds()
	return &Sample{Image: img, Width: b.Dx(), Height: b.Dy(), Metadata: metadata}
}

func fixedVariance(v float64) func(image.Image) float64 {
	return func(image.Image) float64 { return v }
}

func TestScoreSample(t *testing.T) {
	camera := map[string]string{"Make": "Canon", "Model": "EOS 5D"}

	tests := []struct {
		name     string
		sample   *Sample
		variance float64
		want     int
	}{
		{
			name:     "clean high resolution capture",
			sample:   sampleOf(flat(800, 600), camera),
			variance: 500,
			want:     100,
		},
		{
			name:     "small image with metadata and detail",
			sample:   sampleOf(flat(400, 300), camera),
			variance: 150,
			want:     75,
		},
		{
			name:     "no metadata",
			sample:   sampleOf(flat(800, 600), nil),
			variance: 500,
			want:     50,
		},
		{
			name:     "empty metadata counts as missing",
			sample:   sampleOf(flat(800, 600), map[string]string{}),
			variance: 500,
			want:     50,
		},
		{
			name:     "edited in photoshop",
			sample:   sampleOf(flat(800, 600), map[string]string{"Software": "Adobe Photoshop CC 2019 (Windows)"}),
			variance: 500,
			want:     50,
		},
		{
			name:     "other software is fine",
			sample:   sampleOf(flat(800, 600), map[string]string{"Software": "GIMP 2.10"}),
			variance: 500,
			want:     100,
		},
		{
			name:     "marker outside the software tag is ignored",
			sample:   sampleOf(flat(800, 600), map[string]string{"ImageDescription": "Photoshop contest"}),
			variance: 500,
			want:     100,
		},
		{
			name:     "blurry",
			sample:   sampleOf(flat(800, 600), camera),
			variance: 99.9,
			want:     75,
		},
		{
			name:     "everything wrong floors at zero",
			sample:   sampleOf(flat(100, 100), nil),
			variance: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(nil, nil)
			s.variance = fixedVariance(tt.variance)

			report := s.ScoreSample(tt.sample)
			assert.Equal(t, tt.want, report.Score)
			assert.Equal(t, truth.CategoryImage, report.Category)
			assert.Equal(t, tt.sample.Width, report.Width)
		})
	}
}

func TestScoreSample_NoMetadataNeverAboveFifty(t *testing.T) {
	s := NewScorer(nil, nil)
	for _, img := range []*image.Gray{flat(1000, 1000), checkerboard(1000, 1000), flat(10, 10)} {
		report := s.ScoreSample(sampleOf(img, nil))
		assert.LessOrEqual(t, report.Score, 50)
	}
}

func TestScoreSample_RealLaplacian(t *testing.T) {
	s := NewScorer(nil, nil)
	camera := map[string]string{"Make": "Canon"}

	sharp := s.ScoreSample(sampleOf(checkerboard(400, 300), camera))
	assert.Equal(t, 75, sharp.Score, "only the resolution deduction applies")

	blurry := s.ScoreSample(sampleOf(flat(800, 600), camera))
	assert.Equal(t, 75, blurry.Score, "only the detail deduction applies")
}

func TestScore_UsesDecoder(t *testing.T) {
	s := NewScorer(fakeDecoder{sample: sampleOf(checkerboard(640, 640), map[string]string{"Make": "Nikon"})}, nil)

	report, err := s.Score(context.Background(), "ignored.jpg")
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
	assert.Len(t, report.Fingerprint, 16)
}

func TestScore_DecodeFailure(t *testing.T) {
	s := NewScorer(fakeDecoder{err: errors.New("bad header")}, nil)

	_, err := s.Score(context.Background(), "broken.jpg")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindDecode))
}

func TestScore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(fakeDecoder{}, nil).Score(ctx, "x.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestFileDecoder_PNGHasNoMetadata(t *testing.T) {
	path := writePNG(t, checkerboard(64, 32))

	sample, err := FileDecoder{}.Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 64, sample.Width)
	assert.Equal(t, 32, sample.Height)
	assert.Nil(t, sample.Metadata)
}

func TestFileDecoder_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")
	require.NoError(t, os.WriteFile(path, []byte("This is not an image"), 0644))

	_, err := FileDecoder{}.Decode(path)
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindDecode))
}

func TestFileDecoder_NonExistentFile(t *testing.T) {
	_, err := FileDecoder{}.Decode("/path/to/nonexistent/image.jpg")
	require.Error(t, err)
	assert.True(t, truth.IsKind(err, truth.KindDecode))
}

func TestScore_EndToEndPNG(t *testing.T) {
	path := writePNG(t, checkerboard(600, 600))

	report, err := NewScorer(nil, nil).Score(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 50, report.Score, "PNG carries no EXIF block")
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("holiday.JPG"))
	assert.True(t, IsImageFile("/tmp/scan.tiff"))
	assert.True(t, IsImageFile("meme.webp"))
	assert.False(t, IsImageFile("clip.mp4"))
	assert.False(t, IsImageFile("noext"))
}
