package scoring

// band is one rung of a threshold ladder
type band struct {
	matches func(v float64) bool
	score   int
}

// ladder is evaluated top to bottom; the first matching band wins.
// Order is significant: some ladders are deliberately non-monotonic.
type ladder struct {
	bands     []band
	otherwise int
}

func (l ladder) score(v float64) int {
	for _, b := range l.bands {
		if b.matches(v) {
			return b.score
		}
	}
	return l.otherwise
}

func atLeast(bound float64, score int) band {
	return band{matches: func(v float64) bool { return v >= bound }, score: score}
}

func above(bound float64, score int) band {
	return band{matches: func(v float64) bool { return v > bound }, score: score}
}

func atMost(bound float64, score int) band {
	return band{matches: func(v float64) bool { return v <= bound }, score: score}
}

func between(lo, hi float64, score int) band {
	return band{matches: func(v float64) bool { return v >= lo && v <= hi }, score: score}
}
