package scoring

// engagementTier holds the poor/avg/good/excellent breakpoints for a follower range
type engagementTier struct {
	maxFollowers int64 // exclusive; zero means unbounded
	poor         float64
	avg          float64
	good         float64
	excellent    float64
}

// Smaller accounts naturally see higher engagement, so their bar is higher.
var engagementTiers = []engagementTier{
	{maxFollowers: 1000, poor: 2.0, avg: 5.0, good: 10.0, excellent: 15.0},
	{maxFollowers: 10000, poor: 1.5, avg: 3.5, good: 7.0, excellent: 12.0},
	{maxFollowers: 100000, poor: 1.0, avg: 3.0, good: 5.0, excellent: 8.0},
	{maxFollowers: 0, poor: 0.5, avg: 1.5, good: 3.0, excellent: 5.0},
}

// EngagementRateScorer grades the engagement rate against follower-tier benchmarks
type EngagementRateScorer struct {
	tiers []engagementTier
}

// NewEngagementRateScorer creates an engagement rate scorer
func NewEngagementRateScorer() *EngagementRateScorer {
	return &EngagementRateScorer{tiers: engagementTiers}
}

func (s *EngagementRateScorer) Key() string     { return KeyEngagementRate }
func (s *EngagementRateScorer) Label() string   { return "Engagement Rate" }
func (s *EngagementRateScorer) Weight() float64 { return 0.25 }

// Score uses the reported engagement rate, deriving it from posts when absent
func (s *EngagementRateScorer) Score(in *Input) int {
	rate := in.Metrics.EngagementRate
	followers := in.followersOrMetrics()

	if rate <= 0 && len(in.Posts) == 0 {
		return 0
	}
	if rate <= 0 && followers > 0 {
		rate = derivedEngagementRate(in.Posts, followers)
	}

	return s.tierFor(followers).score(rate)
}

func (s *EngagementRateScorer) tierFor(followers int64) engagementTier {
	for _, t := range s.tiers {
		if t.maxFollowers == 0 || followers < t.maxFollowers {
			return t
		}
	}
	return s.tiers[len(s.tiers)-1]
}

// score interpolates linearly inside each band, truncating the partial credit
func (t engagementTier) score(rate float64) int {
	switch {
	case rate >= t.excellent:
		return 100
	case rate >= t.good:
		return 75 + int((rate-t.good)/(t.excellent-t.good)*25)
	case rate >= t.avg:
		return 50 + int((rate-t.avg)/(t.good-t.avg)*25)
	case rate >= t.poor:
		return 25 + int((rate-t.poor)/(t.avg-t.poor)*25)
	case rate > 0:
		return int(rate / t.poor * 25)
	default:
		return 0
	}
}

// derivedEngagementRate is interactions per post as a percentage of followers
func derivedEngagementRate(posts []Post, followers int64) float64 {
	if len(posts) == 0 || followers <= 0 {
		return 0
	}
	var total int64
	for _, p := range posts {
		total += p.Likes + p.Comments + p.Shares
	}
	return float64(total) / float64(len(posts)) / float64(followers) * 100
}
