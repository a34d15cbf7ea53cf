package scoring

// tipRule inspects the scores and input and returns at most one tip.
// Threshold ladders inside a rule are evaluated most severe first.
type tipRule func(scores CategoryScores, in *Input) (Tip, bool)

// TipsEngine generates prioritized improvement suggestions
type TipsEngine struct {
	rules []tipRule
}

// NewTipsEngine creates a tips engine with the built-in rule table
func NewTipsEngine() *TipsEngine {
	return &TipsEngine{
		rules: []tipRule{
			bioTip,
			websiteTip,
			profileImageTip,
			engagementTip,
			postingFrequencyTip,
			contentPerformanceTip,
			growthTip,
			hashtagUsageTip,
			hashtagOveruseTip,
			questionTip,
		},
	}
}

// Generate runs every rule and returns the tips sorted by priority
func (e *TipsEngine) Generate(scores CategoryScores, in *Input) []Tip {
	tips := make([]Tip, 0, len(e.rules))
	for _, rule := range e.rules {
		if t, ok := rule(scores, in); ok {
			tips = append(tips, t)
		}
	}
	SortTips(tips)
	return tips
}

func tip(category string, priority Priority, text string) (Tip, bool) {
	return Tip{Category: category, Tip: text, Priority: priority}, true
}

func bioTip(_ CategoryScores, in *Input) (Tip, bool) {
	switch {
	case in.Profile.Bio == "":
		return tip(KeyProfileCompleteness, PriorityHigh,
			"Add a bio to your profile. A compelling bio helps visitors understand who you are and what you offer.")
	case len(in.Profile.Bio) < 50:
		return tip(KeyProfileCompleteness, PriorityMedium,
			"Your bio is quite short. Add more details about what you do and what followers can expect.")
	}
	return Tip{}, false
}

func websiteTip(_ CategoryScores, in *Input) (Tip, bool) {
	if in.Profile.Website != "" {
		return Tip{}, false
	}
	return tip(KeyProfileCompleteness, PriorityHigh,
		"Add a link to your bio. Use a link-in-bio tool to drive traffic to your content, store, or website.")
}

func profileImageTip(_ CategoryScores, in *Input) (Tip, bool) {
	if in.Profile.ProfileImage != "" {
		return Tip{}, false
	}
	return tip(KeyProfileCompleteness, PriorityHigh,
		"Add a profile photo. Profiles with photos get significantly more engagement.")
}

func engagementTip(_ CategoryScores, in *Input) (Tip, bool) {
	rate := in.Metrics.EngagementRate
	switch {
	case rate < 1:
		return tip(KeyEngagementRate, PriorityHigh,
			"Your engagement is very low. Try asking questions in your captions and respond to every comment you receive.")
	case rate < 2:
		return tip(KeyEngagementRate, PriorityMedium,
			`Your engagement is below average. Use call-to-actions like "Save this for later" or "Tag someone who needs this".`)
	case rate < 3.5:
		return tip(KeyEngagementRate, PriorityLow,
			"Your engagement is average. To push higher, try carousel posts, polls, or behind-the-scenes content.")
	}
	return Tip{}, false
}

func postingFrequencyTip(_ CategoryScores, in *Input) (Tip, bool) {
	freq := in.Metrics.PostingFrequency
	switch {
	case freq < 1:
		return tip(KeyPostConsistency, PriorityHigh,
			"You post less than once a week. Consistency is key — aim for at least 3 posts per week.")
	case freq < 3:
		return tip(KeyPostConsistency, PriorityMedium,
			"Try increasing your posting frequency to 3-5 times per week. Use a content calendar to plan ahead.")
	case freq > 10:
		return tip(KeyPostConsistency, PriorityLow,
			"You post very frequently. Make sure quantity isn't hurting quality — focus on your best-performing content types.")
	}
	return Tip{}, false
}

func contentPerformanceTip(scores CategoryScores, in *Input) (Tip, bool) {
	score := scores[KeyContentPerformance]
	switch {
	case score < 40 && len(in.Posts) > 0:
		return tip(KeyContentPerformance, PriorityHigh,
			"Your content is underperforming. Analyze your top posts and create more content in that style.")
	case score < 60:
		return tip(KeyContentPerformance, PriorityMedium,
			"Try experimenting with different content formats (reels, carousels, stories) to find what resonates with your audience.")
	}
	return Tip{}, false
}

func growthTip(scores CategoryScores, _ *Input) (Tip, bool) {
	score, ok := scores[KeyGrowthTrend]
	if !ok {
		score = neutralGrowth
	}
	switch {
	case score < 40:
		return tip(KeyGrowthTrend, PriorityHigh,
			"Your growth is declining. Focus on shareable content and collaborations to reach new audiences.")
	case score < 55:
		return tip(KeyGrowthTrend, PriorityMedium,
			"Your growth is stagnant. Try new content themes, trending topics, or cross-platform promotion.")
	}
	return Tip{}, false
}

func hashtagUsageTip(_ CategoryScores, in *Input) (Tip, bool) {
	if len(in.Posts) == 0 || summarizeCaptions(in.Posts).hashtagRate() >= 0.5 {
		return Tip{}, false
	}
	return tip(KeyHashtagSEO, PriorityMedium,
		"Use hashtags more consistently. Aim to include 5-15 relevant hashtags on every post for better discoverability.")
}

func hashtagOveruseTip(_ CategoryScores, in *Input) (Tip, bool) {
	if len(in.Posts) == 0 || summarizeCaptions(in.Posts).avgHashtags() <= 25 {
		return Tip{}, false
	}
	return tip(KeyHashtagSEO, PriorityLow,
		"You're using too many hashtags. Focus on 10-15 highly relevant ones instead of spamming.")
}

func questionTip(_ CategoryScores, in *Input) (Tip, bool) {
	if len(in.Posts) == 0 {
		return Tip{}, false
	}
	st := summarizeCaptions(in.Posts)
	if float64(st.postsWithQuestions) >= float64(st.posts)*0.2 {
		return Tip{}, false
	}
	return tip(KeyHashtagSEO, PriorityLow,
		"Ask questions in your captions to boost comments and engagement. Questions make your posts more interactive.")
}
