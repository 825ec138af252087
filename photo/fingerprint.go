package photo

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
)

// Fingerprint returns the perceptual hash of img as a hex string.
// Re-encoded or resized copies of the same picture land within a few bits of each other.
func Fingerprint(img image.Image) (string, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return fmt.Sprintf("%016x", hash.GetHash()), nil
}

// Distance returns the Hamming distance between two fingerprints produced by Fingerprint.
func Distance(a, b string) (int, error) {
	ha, err := parseFingerprint(a)
	if err != nil {
		return 0, err
	}
	hb, err := parseFingerprint(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}

func parseFingerprint(s string) (*goimagehash.ImageHash, error) {
	var v uint64
	if _, err := fmt.Sscanf(s, "%016x", &v); err != nil {
		return nil, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return goimagehash.NewImageHash(v, goimagehash.PHash), nil
}
