// Package sharpness estimates how much fine detail an image carries.
//
// The estimator is the variance of the Laplacian: a blurred or flat picture has
// few strong second derivatives and therefore a low variance.
package sharpness

import (
	"image"
	"image/draw"
)

// DefaultThreshold is the variance below which a picture counts as low detail.
const DefaultThreshold = 100.0

// Grayscale converts img to 8-bit luma using the BT.601 weights.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// FromBytes wraps a packed 8-bit gray buffer of width*height bytes without copying.
func FromBytes(pix []byte, width, height int) *image.Gray {
	return &image.Gray{
		Pix:    pix,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// LaplacianVariance returns the population variance of the 3x3 Laplacian
// response (kernel 0 1 0 / 1 -4 1 / 0 1 0) with reflect-101 borders.
func LaplacianVariance(gray *image.Gray) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(gray.GrayAt(b.Min.X+reflect101(x, w), b.Min.Y+reflect101(y, h)).Y)
	}

	// Welford keeps the running variance stable on large frames.
	var n, mean, m2 float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := at(x, y-1) + at(x-1, y) - 4*at(x, y) + at(x+1, y) + at(x, y+1)
			n++
			delta := v - mean
			mean += delta / n
			m2 += delta * (v - mean)
		}
	}

	return m2 / n
}

// IsLowDetail reports whether the variance falls under threshold.
func IsLowDetail(variance, threshold float64) bool {
	return variance < threshold
}

// reflect101 mirrors an out-of-range index without repeating the edge pixel.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
