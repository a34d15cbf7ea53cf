package scoring

import (
	"strings"
	"testing"
)

func TestProfileCompletenessScorer(t *testing.T) {
	longBio := strings.Repeat("a", 60)

	tests := []struct {
		name     string
		profile  ProfileData
		metrics  Metrics
		expected int
	}{
		{
			name:     "empty profile",
			profile:  ProfileData{},
			expected: 0,
		},
		{
			name: "complete profile",
			profile: ProfileData{
				Name:         "Jane",
				Bio:          longBio,
				ProfileImage: "https://cdn.example.com/jane.png",
				Website:      "https://jane.example.com",
				Verified:     true,
				PostCount:    12,
				Followers:    200,
				Following:    100,
			},
			expected: 100,
		},
		{
			name:     "short bio, low ratio, post count from metrics",
			profile:  ProfileData{Bio: "hi", Followers: 50, Following: 200},
			metrics:  Metrics{TotalPosts: 3},
			expected: 10 + 8 + 5,
		},
		{
			name:     "followers without following",
			profile:  ProfileData{Followers: 100},
			expected: 15,
		},
		{
			name:     "ratio of one half",
			profile:  ProfileData{Followers: 50, Following: 100},
			expected: 10,
		},
		{
			name:     "following without followers",
			profile:  ProfileData{Following: 100},
			expected: 0,
		},
	}

	s := NewProfileCompletenessScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Input{Profile: tt.profile, Metrics: tt.metrics}
			if got := s.Score(in); got != tt.expected {
				t.Errorf("Score() = %d, want %d", got, tt.expected)
			}
		})
	}
}
