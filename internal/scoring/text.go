package scoring

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern    = regexp.MustCompile(`#\w+`)
	linkPattern       = regexp.MustCompile(`https?://`)
	emojiPattern      = regexp.MustCompile(`[\x{1F600}-\x{1F9FF}]`)
	structuredPattern = regexp.MustCompile(`[|\-•📍🔗👇📧]`)
	ctaPattern        = regexp.MustCompile(`(?i)\b(link in bio|check out|follow|comment|share|tag|dm|click|tap|swipe)\b`)
)

func countHashtags(s string) int {
	return len(hashtagPattern.FindAllStringIndex(s, -1))
}

func hasQuestion(s string) bool {
	return strings.Contains(s, "?")
}

// captionStats summarises hashtag and question usage across posts
type captionStats struct {
	posts              int
	postsWithHashtags  int
	totalHashtags      int
	postsWithQuestions int
	postsWithCTA       int
	totalLength        int
}

func summarizeCaptions(posts []Post) captionStats {
	st := captionStats{posts: len(posts)}
	for _, p := range posts {
		n := countHashtags(p.Caption)
		if n > 0 {
			st.postsWithHashtags++
			st.totalHashtags += n
		}
		if hasQuestion(p.Caption) {
			st.postsWithQuestions++
		}
		if ctaPattern.MatchString(p.Caption) {
			st.postsWithCTA++
		}
		st.totalLength += len(p.Caption)
	}
	return st
}

func (st captionStats) rate(count int) float64 {
	if st.posts == 0 {
		return 0
	}
	return float64(count) / float64(st.posts)
}

func (st captionStats) hashtagRate() float64  { return st.rate(st.postsWithHashtags) }
func (st captionStats) questionRate() float64 { return st.rate(st.postsWithQuestions) }
func (st captionStats) ctaRate() float64      { return st.rate(st.postsWithCTA) }
func (st captionStats) avgHashtags() float64  { return st.rate(st.totalHashtags) }
func (st captionStats) avgLength() float64    { return st.rate(st.totalLength) }
