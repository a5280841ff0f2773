package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fjacquet/fintrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func int64Ptr(v int64) *int64 { return &v }

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintrack.db")

	s1, err := Open(path)
	require.NoError(t, err)
	v1, err := s1.AppliedMigrations()
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	v2, err := s2.AppliedMigrations()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, v1)
	assert.Equal(t, v1, v2)
}

func TestRules_InsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.GetRuleByPattern(ctx, "taxi ride")
	assert.True(t, errors.Is(err, ErrNotFound))

	rule := models.NewRule("taxi ride", 7)
	require.NoError(t, s.InsertRule(ctx, &rule))
	assert.NotZero(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())

	got, err := s.GetRuleByPattern(ctx, "taxi ride")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.CategoryID)
	assert.Equal(t, 1.0, got.Confidence)

	got.MarkApplied()
	require.NoError(t, s.UpdateRule(ctx, &got))

	reloaded, err := s.GetRuleByPattern(ctx, "taxi ride")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.TimesApplied)
	assert.InDelta(t, 0.5, reloaded.Confidence, 1e-9)
}

func TestRules_PatternIsUnique(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := models.NewRule("coffee", 1)
	require.NoError(t, s.InsertRule(ctx, &first))
	dup := models.NewRule("coffee", 2)
	assert.Error(t, s.InsertRule(ctx, &dup))
}

func TestRules_UpdateMissing(t *testing.T) {
	s := openTestStore(t)
	rule := models.NewRule("ghost", 1)
	rule.ID = 999
	assert.ErrorIs(t, s.UpdateRule(context.Background(), &rule), ErrNotFound)
}

func TestRules_ListOrderAndStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	stats, err := s.RuleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RuleStats{}, stats)

	for _, p := range []string{"b pattern", "a pattern", "c pattern"} {
		r := models.NewRule(p, 1)
		require.NoError(t, s.InsertRule(ctx, &r))
	}
	half := models.CategorizationRule{Pattern: "d pattern", CategoryID: 2, TimesApplied: 2, TimesCorrect: 1}
	half.RecomputeConfidence()
	require.NoError(t, s.InsertRule(ctx, &half))

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 4)
	assert.Equal(t, "b pattern", rules[0].Pattern)
	assert.Equal(t, "d pattern", rules[3].Pattern)

	stats, err = s.RuleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 3.5/4, stats.AvgConfidence, 1e-9)
}

func TestCorrections_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first := models.Correction{TransactionID: 42, OldCategoryID: int64Ptr(3), NewCategoryID: 7, Description: "taxi ride"}
	require.NoError(t, s.AppendCorrection(ctx, &first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := models.Correction{TransactionID: 43, NewCategoryID: 5, Description: "coffee"}
	require.NoError(t, s.AppendCorrection(ctx, &second))

	n, err := s.CountCorrections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.ListCorrections(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(43), list[0].TransactionID)
	assert.Nil(t, list[0].OldCategoryID)
	require.NotNil(t, list[1].OldCategoryID)
	assert.Equal(t, int64(3), *list[1].OldCategoryID)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx *Store) error {
		r := models.NewRule("rolled back", 1)
		require.NoError(t, tx.InsertRule(ctx, &r))
		require.NoError(t, tx.AppendCorrection(ctx, &models.Correction{TransactionID: 1, NewCategoryID: 1}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
	n, err := s.CountCorrections(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLabeledTransactions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.InsertLabeledTransactions(ctx, []LabeledTransaction{
		{Description: "Coffee Shop", CategoryID: int64Ptr(5), Amount: "-4.50"},
		{Description: "Unknown", Amount: "-1.00"},
		{Description: "Espresso Bar", CategoryID: int64Ptr(5), Amount: "-3.20"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	labeled, err := s.ListLabeledDescriptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.LabeledDescription{
		{Description: "Coffee Shop", CategoryID: 5},
		{Description: "Espresso Bar", CategoryID: 5},
	}, labeled)
}
