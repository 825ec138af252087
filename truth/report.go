package truth

import "fmt"

// Category names what kind of content a report describes.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryText  Category = "text"
)

const (
	// MaxScore is the starting score before any deduction.
	MaxScore = 100
	// MinScore is the floor applied after all deductions.
	MinScore = 0
)

// Deduction is one penalty applied while scoring.
type Deduction struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Report is the outcome of scoring one image or video.
type Report struct {
	Category    Category    `json:"category"`
	Score       int         `json:"score"`
	Deductions  []Deduction `json:"deductions,omitempty"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
	Fingerprint string      `json:"fingerprint,omitempty"`
}

// NewReport starts a report at MaxScore.
func NewReport(category Category) *Report {
	return &Report{Category: category, Score: MaxScore}
}

// Deduct records a penalty. Zero or negative points are ignored.
func (r *Report) Deduct(reason string, points int) {
	if points <= 0 {
		return
	}
	r.Deductions = append(r.Deductions, Deduction{Reason: reason, Points: points})
}

// Total returns the sum of all deductions.
func (r *Report) Total() int {
	total := 0
	for _, d := range r.Deductions {
		total += d.Points
	}
	return total
}

// Finalize computes Score from the recorded deductions and returns the report.
func (r *Report) Finalize() *Report {
	r.Score = Clamp(MaxScore - r.Total())
	return r
}

// Message renders the report with the template for its category.
func (r *Report) Message() string {
	switch r.Category {
	case CategoryVideo:
		return fmt.Sprintf(videoTemplate, r.Score)
	default:
		return fmt.Sprintf(imageTemplate, r.Score)
	}
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
