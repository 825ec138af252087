package cmd

import (
	"fmt"
	"io"

	"github.com/lepinkainen/truthscore/photo"
	"github.com/lepinkainen/truthscore/ui"
)

// MaxDistance is the largest Hamming distance between two 64-bit fingerprints.
const MaxDistance = 64

// SimilarPair is two scored files whose fingerprints are close.
type SimilarPair struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Distance int    `json:"distance"`
}

// FindSimilar compares the fingerprints of all successfully scored files and
// returns the pairs at or below threshold (lower distance = more similar).
func FindSimilar(results []CheckResult, threshold int) []SimilarPair {
	type fileHash struct {
		file string
		hash string
	}

	var hashes []fileHash
	for _, r := range results {
		if r.Report != nil && r.Report.Fingerprint != "" {
			hashes = append(hashes, fileHash{file: r.Path, hash: r.Report.Fingerprint})
		}
	}

	var pairs []SimilarPair
	for i := 0; i < len(hashes); i++ {
		for j := i + 1; j < len(hashes); j++ {
			distance, err := photo.Distance(hashes[i].hash, hashes[j].hash)
			if err != nil {
				continue
			}
			if distance <= threshold {
				pairs = append(pairs, SimilarPair{A: hashes[i].file, B: hashes[j].file, Distance: distance})
			}
		}
	}
	return pairs
}

func printSimilar(w io.Writer, pairs []SimilarPair, threshold int) {
	fmt.Fprintf(w, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Similar files (threshold: %d):", threshold)))
	if len(pairs) == 0 {
		fmt.Fprintf(w, "%s\n", ui.SuccessStyle.Render("✅ No similar files found within threshold"))
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "🎯 Similar (distance %d): %s ↔ %s\n", p.Distance, p.A, p.B)
	}
}
