package stats

import (
	"math"
	"sort"

	"github.com/socialhealth/healthscore/internal/scoring"
)

// TypeBreakdown summarises posts of one content type
type TypeBreakdown struct {
	Type        scoring.PostType `json:"type"`
	Count       int              `json:"count"`
	AvgLikes    int64            `json:"avg_likes"`
	AvgViews    int64            `json:"avg_views"`
	AvgComments int64            `json:"avg_comments"`
}

// ContentBreakdown groups posts by type, most common type first
func ContentBreakdown(posts []scoring.Post) []TypeBreakdown {
	type totals struct {
		count                  int
		likes, views, comments int64
	}

	byType := make(map[scoring.PostType]*totals)
	for _, p := range posts {
		t := p.PostType
		if t == "" {
			t = scoring.PostTypeUnknown
		}
		acc, ok := byType[t]
		if !ok {
			acc = &totals{}
			byType[t] = acc
		}
		acc.count++
		acc.likes += p.Likes
		acc.views += p.Views
		acc.comments += p.Comments
	}

	out := make([]TypeBreakdown, 0, len(byType))
	for t, acc := range byType {
		n := float64(acc.count)
		out = append(out, TypeBreakdown{
			Type:        t,
			Count:       acc.count,
			AvgLikes:    int64(math.Round(float64(acc.likes) / n)),
			AvgViews:    int64(math.Round(float64(acc.views) / n)),
			AvgComments: int64(math.Round(float64(acc.comments) / n)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
