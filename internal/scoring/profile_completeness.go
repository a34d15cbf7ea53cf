package scoring

import "math"

// ProfileCompletenessScorer awards points for filled-in profile fields
type ProfileCompletenessScorer struct{}

// NewProfileCompletenessScorer creates a profile completeness scorer
func NewProfileCompletenessScorer() *ProfileCompletenessScorer {
	return &ProfileCompletenessScorer{}
}

func (s *ProfileCompletenessScorer) Key() string     { return KeyProfileCompleteness }
func (s *ProfileCompletenessScorer) Label() string   { return "Profile Completeness" }
func (s *ProfileCompletenessScorer) Weight() float64 { return 0.15 }

const profileMaxPoints = 20 + 15 + 10 + 15 + 10 + 15 + 15

// Score adds up bio, image, name, website, verification, post count and
// follower ratio points out of a fixed 100.
func (s *ProfileCompletenessScorer) Score(in *Input) int {
	p := in.Profile
	points := 0

	if n := len(p.Bio); n >= 50 {
		points += 20
	} else if n > 0 {
		points += 10
	}
	if p.ProfileImage != "" {
		points += 15
	}
	if p.Name != "" {
		points += 10
	}
	if p.Website != "" {
		points += 15
	}
	if p.Verified {
		points += 10
	}

	postCount := p.PostCount
	if postCount == 0 {
		postCount = in.Metrics.TotalPosts
	}
	switch {
	case postCount >= 10:
		points += 15
	case postCount >= 1:
		points += 8
	}

	switch {
	case p.Followers > 0 && p.Following > 0:
		ratio := float64(p.Followers) / float64(p.Following)
		switch {
		case ratio >= 1.0:
			points += 15
		case ratio >= 0.5:
			points += 10
		default:
			points += 5
		}
	case p.Followers > 0:
		points += 15
	}

	return int(math.Round(float64(points) / profileMaxPoints * 100))
}
