package scoring

import (
	"sort"
	"time"
)

// Priority orders tips, high first
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort position of a priority; unknown priorities sort last
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Tip is a prioritized improvement suggestion tied to a category
type Tip struct {
	Category string   `json:"category"`
	Tip      string   `json:"tip"`
	Priority Priority `json:"priority"`
}

// SortTips stable-sorts tips by priority rank
func SortTips(tips []Tip) {
	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority.Rank() < tips[j].Priority.Rank()
	})
}

// CategoryScores maps category key to its 0-100 score
type CategoryScores map[string]int

// Score is the result of one calculation
type Score struct {
	OverallScore   int            `json:"overall_score"`
	CategoryScores CategoryScores `json:"category_scores"`
	Tips           []Tip          `json:"tips"`
	CalculatedAt   time.Time      `json:"calculated_at"`
}

// Grade maps the overall score to a letter
func (s *Score) Grade() string {
	return GradeFor(s.OverallScore)
}

// AppendTip adds a tip after the fact, e.g. from a manual review,
// keeping the list priority-sorted.
func (s *Score) AppendTip(t Tip) {
	s.Tips = append(s.Tips, t)
	SortTips(s.Tips)
}

// GradeFor returns the letter grade for an overall score
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}
