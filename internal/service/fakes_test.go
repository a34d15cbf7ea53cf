package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/socialhealth/healthscore/internal/cache"
	"github.com/socialhealth/healthscore/internal/db"
	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/pkg/config"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var testScoring = config.ScoringConfig{
	FreeCooldown:    72 * time.Hour,
	PremiumCooldown: 12 * time.Hour,
	LatestScoreTTL:  time.Hour,
	HistoryDays:     30,
	RecentPosts:     25,
}

type fakeAccounts struct {
	byID    map[int64]*models.SocialAccount
	updated map[int64]time.Time
}

func newFakeAccounts(accounts ...*models.SocialAccount) *fakeAccounts {
	f := &fakeAccounts{byID: map[int64]*models.SocialAccount{}, updated: map[int64]time.Time{}}
	for _, a := range accounts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.SocialAccount, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, account *models.SocialAccount, syncedAt time.Time) error {
	stored := f.byID[account.ID]
	stored.ProfileData = account.ProfileData
	stored.LastSyncedAt.Time, stored.LastSyncedAt.Valid = syncedAt, true
	f.updated[account.ID] = syncedAt
	return nil
}

type fakeScores struct {
	rows      []*models.ProfileScore
	createErr error
}

func (f *fakeScores) Create(_ context.Context, score *models.ProfileScore) error {
	if f.createErr != nil {
		return f.createErr
	}
	score.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, score)
	return nil
}

func (f *fakeScores) GetByID(_ context.Context, id int64) (*models.ProfileScore, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeScores) History(_ context.Context, accountID int64, since time.Time, limit int) ([]*models.ProfileScore, error) {
	var out []*models.ProfileScore
	for _, r := range f.rows {
		if r.SocialAccountID == accountID && (since.IsZero() || !r.CreatedAt.Before(since)) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScores) Latest(ctx context.Context, accountID int64) (*models.ProfileScore, error) {
	rows, _ := f.History(ctx, accountID, time.Time{}, 1)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (f *fakeScores) AppendTip(ctx context.Context, scoreID int64, tip scoring.Tip) (*models.ProfileScore, error) {
	row, _ := f.GetByID(ctx, scoreID)
	if row == nil {
		return nil, nil
	}
	s, err := row.Score()
	if err != nil {
		return nil, err
	}
	s.AppendTip(tip)
	return row, row.SetTips(s.Tips)
}

// seed stores a past score for accountID
func (f *fakeScores) seed(accountID int64, overall int, at time.Time) *models.ProfileScore {
	row, err := models.NewProfileScore(&models.SocialAccount{ID: accountID}, scoring.Score{
		OverallScore:   overall,
		CategoryScores: scoring.CategoryScores{},
		CalculatedAt:   at,
	})
	if err != nil {
		panic(err)
	}
	_ = f.Create(context.Background(), row)
	return row
}

type fakeSnapshots struct {
	rows []*models.ScoreSnapshot
}

func (f *fakeSnapshots) Upsert(_ context.Context, snapshot *models.ScoreSnapshot) error {
	for i, r := range f.rows {
		if r.SocialAccountID == snapshot.SocialAccountID && r.SnapshotDate.Equal(snapshot.SnapshotDate) {
			f.rows[i] = snapshot
			return nil
		}
	}
	f.rows = append(f.rows, snapshot)
	return nil
}

func (f *fakeSnapshots) Since(_ context.Context, accountID int64, since time.Time) ([]*models.ScoreSnapshot, error) {
	var out []*models.ScoreSnapshot
	for _, r := range f.rows {
		if r.SocialAccountID == accountID && !r.SnapshotDate.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SnapshotDate.After(out[j].SnapshotDate) })
	return out, nil
}

func (f *fakeSnapshots) Latest(ctx context.Context, accountID int64) (*models.ScoreSnapshot, error) {
	rows, _ := f.Since(ctx, accountID, time.Time{})
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

type fakePosts struct {
	rows []*models.Post
}

func (f *fakePosts) Upsert(_ context.Context, posts []*models.Post) error {
	f.rows = append(f.rows, posts...)
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, accountID, postID int64) (*models.Post, error) {
	for _, p := range f.rows {
		if p.ID == postID && p.SocialAccountID == accountID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePosts) ByAccount(_ context.Context, accountID int64) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.rows {
		if p.SocialAccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePosts) Recent(ctx context.Context, accountID int64, limit int) ([]*models.Post, error) {
	out, _ := f.ByAccount(ctx, accountID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePosts) List(ctx context.Context, accountID int64, q db.PostQuery) (*db.PostPage, error) {
	q = q.Normalized()
	out, _ := f.ByAccount(ctx, accountID)
	return &db.PostPage{Posts: out, Total: int64(len(out)), Page: q.Page, PerPage: q.PerPage}, nil
}

type fakeCache struct {
	values    map[string][]byte
	cooldowns map[string]time.Duration
	released  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}, cooldowns: map[string]time.Duration{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.values[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeCache) AcquireCooldown(_ context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	if remaining, held := f.cooldowns[key]; held {
		return false, remaining, nil
	}
	f.cooldowns[key] = ttl
	return true, 0, nil
}

func (f *fakeCache) ReleaseCooldown(_ context.Context, key string) error {
	delete(f.cooldowns, key)
	f.released = append(f.released, key)
	return nil
}

type brokenCache struct{ fakeCache }

func (brokenCache) AcquireCooldown(context.Context, string, time.Duration) (bool, time.Duration, error) {
	return false, 0, errors.New("connection refused")
}

type testStores struct {
	accounts  *fakeAccounts
	scores    *fakeScores
	snapshots *fakeSnapshots
	posts     *fakePosts
}

func newTestStores(accounts ...*models.SocialAccount) *testStores {
	return &testStores{
		accounts:  newFakeAccounts(accounts...),
		scores:    &fakeScores{},
		snapshots: &fakeSnapshots{},
		posts:     &fakePosts{},
	}
}

func (ts *testStores) Stores() Stores {
	return Stores{Accounts: ts.accounts, Scores: ts.scores, Snapshots: ts.snapshots, Posts: ts.posts}
}

func freeAccount(id int64) *models.SocialAccount {
	return &models.SocialAccount{ID: id, UserID: 1, Platform: "instagram", Username: "ana"}
}

func premiumAccount(id int64) *models.SocialAccount {
	a := freeAccount(id)
	a.IsPremium = true
	return a
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}
