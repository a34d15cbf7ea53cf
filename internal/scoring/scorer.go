package scoring

import "time"

// Category keys, in registration order
const (
	KeyProfileCompleteness = "profile_completeness"
	KeyEngagementRate      = "engagement_rate"
	KeyPostConsistency     = "post_consistency"
	KeyContentPerformance  = "content_performance"
	KeyGrowthTrend         = "growth_trend"
	KeyHashtagSEO          = "hashtag_seo"
)

// GrowthWindow is how far back the growth scorer looks for snapshots
const GrowthWindow = 30 * 24 * time.Hour

// Scorer computes one category score from an account's data.
// Score must be a pure function of its input.
type Scorer interface {
	Key() string
	Label() string
	Weight() float64
	Score(in *Input) int
}

// Category describes a registered scorer without running it
type Category struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// DefaultScorers returns the six built-in scorers in their fixed order
func DefaultScorers() []Scorer {
	return []Scorer{
		NewProfileCompletenessScorer(),
		NewEngagementRateScorer(),
		NewPostConsistencyScorer(),
		NewContentPerformanceScorer(),
		NewGrowthTrendScorer(),
		NewHashtagSEOScorer(),
	}
}
