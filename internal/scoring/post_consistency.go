package scoring

import (
	"math"
	"sort"
	"time"
)

// frequencyLadder scores posts per week. 5-7 is the sweet spot; daily or
// more is deliberately scored below it.
var frequencyLadder = ladder{
	bands: []band{
		atLeast(7, 90),
		atLeast(5, 100),
		atLeast(3, 85),
		atLeast(2, 65),
		atLeast(1, 45),
		above(0, 25),
	},
	otherwise: 0,
}

// regularityLadder scores the coefficient of variation of posting gaps
var regularityLadder = ladder{
	bands: []band{
		atMost(0.3, 100),
		atMost(0.5, 80),
		atMost(0.8, 60),
		atMost(1.2, 40),
	},
	otherwise: 20,
}

// PostConsistencyScorer rates how often and how regularly an account posts
type PostConsistencyScorer struct{}

// NewPostConsistencyScorer creates a post consistency scorer
func NewPostConsistencyScorer() *PostConsistencyScorer {
	return &PostConsistencyScorer{}
}

func (s *PostConsistencyScorer) Key() string     { return KeyPostConsistency }
func (s *PostConsistencyScorer) Label() string   { return "Post Consistency" }
func (s *PostConsistencyScorer) Weight() float64 { return 0.20 }

// Score blends frequency (60%) and regularity (40%) from post dates, or
// falls back to the reported posting frequency when there are no posts.
func (s *PostConsistencyScorer) Score(in *Input) int {
	if len(in.Posts) == 0 {
		return frequencyLadder.score(in.Metrics.PostingFrequency)
	}

	dates := make([]time.Time, 0, len(in.Posts))
	for _, p := range in.Posts {
		if p.PostedAt != nil && !p.PostedAt.IsZero() {
			dates = append(dates, *p.PostedAt)
		}
	}
	if len(dates) < 2 {
		if len(dates) == 1 {
			return 20
		}
		return 0
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps = append(gaps, dates[i].Sub(dates[i-1]).Hours()/24)
	}

	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))

	postsPerWeek := 0.0
	if mean > 0 {
		postsPerWeek = 7 / mean
	}

	variance := 0.0
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(gaps)))

	coefficient := 1.0
	if mean > 0 {
		coefficient = stdDev / mean
	}

	frequency := frequencyLadder.score(postsPerWeek)
	regularity := regularityLadder.score(coefficient)

	return int(math.Round(float64(frequency)*0.6 + float64(regularity)*0.4))
}
