package scoring

import (
	"math"
	"time"
)

// WeightedScore is one scorer's raw output paired with its weight
type WeightedScore struct {
	Key    string
	Score  int
	Weight float64
}

// Aggregate returns the weighted average of the clamped scores, rounded.
// It normalises by the weights present, so they need not sum to 1.
func Aggregate(results []WeightedScore) int {
	var weighted, total float64
	for _, r := range results {
		weighted += float64(clamp(r.Score)) * r.Weight
		total += r.Weight
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(weighted / total))
}

func clamp(score int) int {
	return max(0, min(100, score))
}

// Calculator runs a fixed set of scorers and the tips engine.
// It holds no mutable state and may be shared between goroutines. Results
// are never memoised: callers own throttling.
type Calculator struct {
	scorers []Scorer
	tips    *TipsEngine
}

// NewCalculator validates the scorer set: keys must be non-empty and
// unique, weights must lie in (0,1].
func NewCalculator(scorers ...Scorer) (*Calculator, error) {
	seen := make(map[string]bool, len(scorers))
	for _, s := range scorers {
		key := s.Key()
		if key == "" {
			return nil, &ConfigError{Reason: "empty category key"}
		}
		if seen[key] {
			return nil, &ConfigError{Key: key, Reason: "registered twice"}
		}
		if w := s.Weight(); math.IsNaN(w) || w <= 0 || w > 1 {
			return nil, &ConfigError{Key: key, Reason: "weight must be in (0,1]"}
		}
		seen[key] = true
	}

	registered := make([]Scorer, len(scorers))
	copy(registered, scorers)

	return &Calculator{
		scorers: registered,
		tips:    NewTipsEngine(),
	}, nil
}

// MustDefaultCalculator returns a calculator over DefaultScorers
func MustDefaultCalculator() *Calculator {
	c, err := NewCalculator(DefaultScorers()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Calculate scores the input and generates tips
func (c *Calculator) Calculate(in Input, now time.Time) Score {
	normalized := in.Normalized()
	results := c.Evaluate(&normalized)

	scores := make(CategoryScores, len(results))
	for _, r := range results {
		scores[r.Key] = clamp(r.Score)
	}

	return Score{
		OverallScore:   Aggregate(results),
		CategoryScores: scores,
		Tips:           c.tips.Generate(scores, &normalized),
		CalculatedAt:   now,
	}
}

// Evaluate runs every scorer in registration order and returns the raw results
func (c *Calculator) Evaluate(in *Input) []WeightedScore {
	results := make([]WeightedScore, 0, len(c.scorers))
	for _, s := range c.scorers {
		results = append(results, WeightedScore{
			Key:    s.Key(),
			Score:  s.Score(in),
			Weight: s.Weight(),
		})
	}
	return results
}

// Categories lists the registered categories in order
func (c *Calculator) Categories() []Category {
	out := make([]Category, 0, len(c.scorers))
	for _, s := range c.scorers {
		out = append(out, Category{Key: s.Key(), Label: s.Label(), Weight: s.Weight()})
	}
	return out
}

// Category looks up a registered category by key
func (c *Calculator) Category(key string) (Category, error) {
	for _, s := range c.scorers {
		if s.Key() == key {
			return Category{Key: s.Key(), Label: s.Label(), Weight: s.Weight()}, nil
		}
	}
	return Category{}, &ConfigError{Key: key, Reason: "not registered", Err: ErrUnknownCategory}
}
