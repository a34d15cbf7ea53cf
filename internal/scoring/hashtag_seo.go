package scoring

import "math"

var lengthLadder = ladder{
	bands: []band{
		atLeast(100, 40),
		atLeast(50, 25),
		above(0, 10),
	},
}

var hashtagUsageLadder = ladder{
	bands: []band{
		atLeast(80, 50),
		atLeast(50, 35),
		atLeast(20, 20),
	},
	otherwise: 5,
}

// 5-15 tags per post is the sweet spot
var hashtagCountLadder = ladder{
	bands: []band{
		between(5, 15, 50),
		between(3, 20, 35),
		atLeast(1, 20),
	},
}

var ctaLadder = ladder{
	bands: []band{
		atLeast(40, 30),
		atLeast(20, 20),
		above(0, 10),
	},
}

var questionLadder = ladder{
	bands: []band{
		atLeast(30, 30),
		atLeast(15, 20),
		above(0, 10),
	},
}

// HashtagSEOScorer rates bio discoverability, hashtag usage and caption quality
type HashtagSEOScorer struct{}

// NewHashtagSEOScorer creates a hashtag and SEO scorer
func NewHashtagSEOScorer() *HashtagSEOScorer {
	return &HashtagSEOScorer{}
}

func (s *HashtagSEOScorer) Key() string     { return KeyHashtagSEO }
func (s *HashtagSEOScorer) Label() string   { return "Hashtag & SEO" }
func (s *HashtagSEOScorer) Weight() float64 { return 0.10 }

// Score is the bio score alone without posts, otherwise
// bio 30% + hashtags 40% + captions 30%.
func (s *HashtagSEOScorer) Score(in *Input) int {
	bio := scoreBio(in.Profile.Bio)
	if len(in.Posts) == 0 {
		return bio
	}

	st := summarizeCaptions(in.Posts)
	return int(math.Round(float64(bio)*0.3 + float64(scoreHashtags(st))*0.4 + float64(scoreCaptions(st))*0.3))
}

func scoreBio(bio string) int {
	if bio == "" {
		return 0
	}

	score := lengthLadder.score(float64(len(bio)))
	if linkPattern.MatchString(bio) {
		score += 20
	}
	if hashtagPattern.MatchString(bio) {
		score += 15
	}
	if emojiPattern.MatchString(bio) {
		score += 10
	}
	if structuredPattern.MatchString(bio) {
		score += 15
	}
	return min(100, score)
}

func scoreHashtags(st captionStats) int {
	if st.posts == 0 {
		return 0
	}
	return hashtagUsageLadder.score(st.hashtagRate()*100) + hashtagCountLadder.score(st.avgHashtags())
}

func scoreCaptions(st captionStats) int {
	if st.posts == 0 {
		return 0
	}
	score := lengthLadder.score(st.avgLength()) +
		ctaLadder.score(st.ctaRate()*100) +
		questionLadder.score(st.questionRate()*100)
	return min(100, score)
}
