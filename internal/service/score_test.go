package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
)

func newTestScoreService(ts *testStores, c Cache) *ScoreService {
	s := NewScoreService(ts.Stores(), c, scoring.MustDefaultCalculator(), testScoring)
	s.now = fixedClock()
	return s
}

func TestCalculateStoresScore(t *testing.T) {
	account := freeAccount(1)
	if err := account.SetProfile(scoring.ProfileData{Name: "Ana", Bio: "Travel and food", Followers: 2000}); err != nil {
		t.Fatal(err)
	}
	ts := newTestStores(account)
	ts.snapshots.rows = []*models.ScoreSnapshot{
		models.NewSnapshot(1, testNow.AddDate(0, 0, -10), scoring.Metrics{Followers: 1800, EngagementRate: 2.0}),
		models.NewSnapshot(1, testNow, scoring.Metrics{Followers: 2000, EngagementRate: 3.5, AvgLikes: 70}),
	}
	c := newFakeCache()
	svc := newTestScoreService(ts, c)

	result, err := svc.Calculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if len(ts.scores.rows) != 1 {
		t.Fatalf("stored %d scores, want 1", len(ts.scores.rows))
	}
	if result.ID != ts.scores.rows[0].ID || result.OverallScore != int(ts.scores.rows[0].OverallScore) {
		t.Errorf("result %+v does not match stored row", result)
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("OverallScore = %d, want within [0,100]", result.OverallScore)
	}
	if result.Grade != scoring.GradeFor(result.OverallScore) {
		t.Errorf("Grade = %s, want %s", result.Grade, scoring.GradeFor(result.OverallScore))
	}
	if len(result.CategoryScores) != 6 {
		t.Errorf("CategoryScores has %d entries, want 6", len(result.CategoryScores))
	}
	if want := testNow.Add(72 * time.Hour); !result.NextAvailableAt.Equal(want) {
		t.Errorf("NextAvailableAt = %v, want %v", result.NextAvailableAt, want)
	}
	if _, ok := c.values[latestKey(1)]; !ok {
		t.Error("latest score should be cached")
	}
	if _, ok := c.cooldowns[cooldownKey(1, 0)]; !ok {
		t.Error("cooldown should be claimed")
	}
}

func TestCalculateCooldown(t *testing.T) {
	tests := []struct {
		name     string
		account  *models.SocialAccount
		lastAgo  time.Duration
		wantNext time.Duration // relative to the last score; zero means allowed
	}{
		{"free within cooldown", freeAccount(1), time.Hour, 72 * time.Hour},
		{"free after cooldown", freeAccount(1), 73 * time.Hour, 0},
		{"premium within cooldown", premiumAccount(1), 11 * time.Hour, 12 * time.Hour},
		{"premium after cooldown", premiumAccount(1), 13 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestStores(tt.account)
			last := testNow.Add(-tt.lastAgo)
			ts.scores.seed(1, 40, last)
			svc := newTestScoreService(ts, nil)

			_, err := svc.Calculate(context.Background(), 1)
			if tt.wantNext == 0 {
				if err != nil {
					t.Fatalf("Calculate() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, ErrCooldown) {
				t.Fatalf("Calculate() error = %v, want ErrCooldown", err)
			}
			ce, ok := IsCooldown(err)
			if !ok {
				t.Fatal("IsCooldown() = false")
			}
			if want := last.Add(tt.wantNext); !ce.NextAvailableAt.Equal(want) {
				t.Errorf("NextAvailableAt = %v, want %v", ce.NextAvailableAt, want)
			}
			if len(ts.scores.rows) != 1 {
				t.Errorf("stored %d scores, want only the seeded one", len(ts.scores.rows))
			}
		})
	}
}

func TestCalculateCacheCooldown(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	c := newFakeCache()
	c.cooldowns[cooldownKey(1, 0)] = 5 * time.Hour
	svc := newTestScoreService(ts, c)

	_, err := svc.Calculate(context.Background(), 1)
	ce, ok := IsCooldown(err)
	if !ok {
		t.Fatalf("Calculate() error = %v, want cooldown", err)
	}
	if want := testNow.Add(5 * time.Hour); !ce.NextAvailableAt.Equal(want) {
		t.Errorf("NextAvailableAt = %v, want %v", ce.NextAvailableAt, want)
	}
}

func TestCalculateAfterPremiumUpgrade(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	c := newFakeCache()
	svc := newTestScoreService(ts, c)
	svc.now = func() time.Time { return testNow.Add(-13 * time.Hour) }

	if _, err := svc.Calculate(context.Background(), 1); err != nil {
		t.Fatalf("free Calculate() error = %v", err)
	}
	if ttl := c.cooldowns[cooldownKey(1, 0)]; ttl != 72*time.Hour {
		t.Fatalf("free lock ttl = %v, want 72h", ttl)
	}

	ts.accounts.byID[1].IsPremium = true
	svc.now = fixedClock()

	result, err := svc.Calculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("premium Calculate() error = %v, want the free lock to be ignored", err)
	}
	if len(ts.scores.rows) != 2 {
		t.Errorf("stored %d scores, want 2", len(ts.scores.rows))
	}
	if want := testNow.Add(12 * time.Hour); !result.NextAvailableAt.Equal(want) {
		t.Errorf("NextAvailableAt = %v, want %v", result.NextAvailableAt, want)
	}
}

func TestCalculateConcurrentLock(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	last := ts.scores.seed(1, 40, testNow.Add(-73*time.Hour))
	c := newFakeCache()
	c.cooldowns[cooldownKey(1, last.ID)] = 72 * time.Hour
	svc := newTestScoreService(ts, c)

	if _, err := svc.Calculate(context.Background(), 1); !errors.Is(err, ErrCooldown) {
		t.Fatalf("Calculate() error = %v, want ErrCooldown while another calculation holds the lock", err)
	}
	if len(ts.scores.rows) != 1 {
		t.Errorf("stored %d scores, want only the seeded one", len(ts.scores.rows))
	}
}

func TestCalculateCacheUnavailable(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	svc := newTestScoreService(ts, &brokenCache{fakeCache: *newFakeCache()})

	if _, err := svc.Calculate(context.Background(), 1); err != nil {
		t.Fatalf("Calculate() error = %v, want fallback to stored scores", err)
	}
}

func TestCalculateReleasesCooldownOnFailure(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	ts.scores.createErr = errors.New("disk full")
	c := newFakeCache()
	svc := newTestScoreService(ts, c)

	if _, err := svc.Calculate(context.Background(), 1); err == nil {
		t.Fatal("Calculate() should fail when the score cannot be stored")
	}
	if _, held := c.cooldowns[cooldownKey(1, 0)]; held {
		t.Error("cooldown should be released after a failed calculation")
	}
}

func TestCalculateAccountNotFound(t *testing.T) {
	svc := newTestScoreService(newTestStores(), nil)
	if _, err := svc.Calculate(context.Background(), 99); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Calculate() error = %v, want ErrAccountNotFound", err)
	}
}

func TestLatest(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	svc := newTestScoreService(ts, newFakeCache())

	if _, err := svc.Latest(context.Background(), 1); !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("Latest() error = %v, want ErrScoreNotFound", err)
	}

	ts.scores.seed(1, 55, testNow.Add(-48*time.Hour))
	ts.scores.seed(1, 61, testNow.Add(-time.Hour))

	got, err := svc.Latest(context.Background(), 1)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got.OverallScore != 61 || got.Grade != "C" {
		t.Errorf("Latest() = %+v, want the 61 (C) score", got)
	}
}

func TestHistoryWindow(t *testing.T) {
	tests := []struct {
		name    string
		account *models.SocialAccount
		want    int
	}{
		{"free sees 30 days", freeAccount(1), 2},
		{"premium sees everything", premiumAccount(1), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestStores(tt.account)
			ts.scores.seed(1, 50, testNow.AddDate(0, 0, -45))
			ts.scores.seed(1, 60, testNow.AddDate(0, 0, -20))
			ts.scores.seed(1, 70, testNow.AddDate(0, 0, -1))
			svc := newTestScoreService(ts, nil)

			got, err := svc.History(context.Background(), 1)
			if err != nil {
				t.Fatalf("History() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("History() returned %d scores, want %d", len(got), tt.want)
			}
			if got[0].OverallScore != 70 {
				t.Errorf("History()[0] = %d, want newest score 70", got[0].OverallScore)
			}
		})
	}
}

func TestAddReviewTip(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	row := ts.scores.seed(1, 64, testNow)
	c := newFakeCache()
	c.values[latestKey(1)] = []byte(`{"id":1}`)
	svc := newTestScoreService(ts, c)
	ctx := context.Background()

	if _, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty tip error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "x", Priority: "urgent"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad priority error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "x", Category: "follower_quality"}); !errors.Is(err, scoring.ErrUnknownCategory) {
		t.Errorf("unknown category error = %v, want ErrUnknownCategory", err)
	}
	if _, err := svc.AddReviewTip(ctx, 404, scoring.Tip{Tip: "x"}); !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("unknown score error = %v, want ErrScoreNotFound", err)
	}

	if _, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "Pin a post", Priority: scoring.PriorityLow}); err != nil {
		t.Fatalf("AddReviewTip() error = %v", err)
	}
	if _, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "Shorten captions", Category: " " + scoring.KeyHashtagSEO, Priority: scoring.PriorityLow}); err != nil {
		t.Fatalf("AddReviewTip() with a scored category error = %v", err)
	}
	got, err := svc.AddReviewTip(ctx, row.ID, scoring.Tip{Tip: "Reply to comments"})
	if err != nil {
		t.Fatalf("AddReviewTip() error = %v", err)
	}

	if len(got.Tips) != 3 {
		t.Fatalf("Tips = %+v, want 3", got.Tips)
	}
	if got.Tips[0].Priority != scoring.PriorityMedium || got.Tips[0].Category != "review" {
		t.Errorf("Tips[0] = %+v, want defaulted medium review tip first", got.Tips[0])
	}
	if got.OverallScore != 64 {
		t.Errorf("OverallScore = %d, want unchanged 64", got.OverallScore)
	}
	if _, ok := c.values[latestKey(1)]; ok {
		t.Error("cached latest score should be invalidated")
	}
}

func TestCategories(t *testing.T) {
	svc := newTestScoreService(newTestStores(), nil)
	cats := svc.Categories()
	if len(cats) != 6 || cats[0].Key != scoring.KeyProfileCompleteness {
		t.Errorf("Categories() = %+v", cats)
	}
}

func TestShare(t *testing.T) {
	ts := newTestStores(freeAccount(1))
	svc := newTestScoreService(ts, nil)
	ctx := context.Background()

	if _, err := svc.Share(ctx, 1); !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("Share() error = %v, want ErrScoreNotFound", err)
	}
	if _, err := svc.Share(ctx, 2); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("Share() error = %v, want ErrAccountNotFound", err)
	}

	ts.scores.seed(1, 48, testNow.Add(-96*time.Hour))
	ts.scores.seed(1, 82, testNow.Add(-2*time.Hour))

	card, err := svc.Share(ctx, 1)
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if card.Username != "ana" || card.Platform != "instagram" {
		t.Errorf("Share() account = %s/%s, want ana/instagram", card.Username, card.Platform)
	}
	if card.OverallScore != 82 || card.Grade != "A" {
		t.Errorf("Share() = %d (%s), want 82 (A)", card.OverallScore, card.Grade)
	}
	if want := testNow.Add(-2 * time.Hour); !card.CalculatedAt.Equal(want) {
		t.Errorf("CalculatedAt = %v, want %v", card.CalculatedAt, want)
	}
}
