package scoring

import "math"

var likeRatioLadder = ladder{
	bands: []band{
		atLeast(10, 100),
		atLeast(5, 85),
		atLeast(3, 70),
		atLeast(1.5, 55),
		atLeast(0.5, 35),
		above(0, 20),
	},
}

var viewRatioLadder = ladder{
	bands: []band{
		atLeast(100, 100),
		atLeast(50, 85),
		atLeast(25, 70),
		atLeast(10, 55),
		atLeast(5, 40),
		above(0, 25),
	},
}

// ContentPerformanceScorer compares average likes and views to the follower count
type ContentPerformanceScorer struct{}

// NewContentPerformanceScorer creates a content performance scorer
func NewContentPerformanceScorer() *ContentPerformanceScorer {
	return &ContentPerformanceScorer{}
}

func (s *ContentPerformanceScorer) Key() string     { return KeyContentPerformance }
func (s *ContentPerformanceScorer) Label() string   { return "Content Performance" }
func (s *ContentPerformanceScorer) Weight() float64 { return 0.20 }

// Score bands the like ratio and, on platforms reporting views, blends it
// 50/50 with the view ratio.
func (s *ContentPerformanceScorer) Score(in *Input) int {
	followers := in.followersOrMetrics()
	if followers == 0 || len(in.Posts) == 0 {
		return 0
	}

	var likes, views int64
	for _, p := range in.Posts {
		likes += p.Likes
		views += p.Views
	}
	n := float64(len(in.Posts))
	avgLikes := float64(likes) / n
	avgViews := float64(views) / n

	likeScore := likeRatioLadder.score(avgLikes / float64(followers) * 100)
	if avgViews <= 0 {
		return likeScore
	}

	viewScore := viewRatioLadder.score(avgViews / float64(followers) * 100)
	return int(math.Round(float64(likeScore)*0.5 + float64(viewScore)*0.5))
}
