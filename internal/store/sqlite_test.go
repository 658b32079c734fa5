package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasingborsen/pricelist-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleResult() *model.ExtractionResult {
	return &model.ExtractionResult{
		Success: true,
		Items: []model.IdentifiedVariant{
			{
				NormalizedVariant: model.NormalizedVariant{
					RawCandidate: model.RawCandidate{
						Model:        "AYGO X",
						Variant:      "Active",
						MonthlyPrice: 2699,
					},
					CanonicalVariant: "Active 1.0 benzin 72 hk",
				},
				ID: "aygox_active_72hp_manual",
			},
			{
				NormalizedVariant: model.NormalizedVariant{
					RawCandidate: model.RawCandidate{
						Model:        "AYGO X",
						Variant:      "Pulse",
						MonthlyPrice: 3149,
					},
					CanonicalVariant: "Pulse 1.0 benzin 72 hk automatgear",
				},
				ID: "aygox_pulse_72hp_auto",
			},
		},
		Errors:   []string{},
		Metadata: model.Metadata{PagesProcessed: 4, ValidatedItems: 2},
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "prisliste-maj.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "prisliste-maj.pdf", got.Document)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLite_CompleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "prisliste.pdf")
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, run.ID, sampleResult()))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Items, 2)
	assert.Equal(t, 4, got.Result.Metadata.PagesProcessed)
}

func TestSQLite_CompleteRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun(context.Background(), "nonexistent", sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_FailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "broken.pdf")
	require.NoError(t, err)
	require.NoError(t, s.FailRun(ctx, run.ID, "no pages in document"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "no pages in document", got.Error)
}

func TestSQLite_ListRuns_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, "a.pdf")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "b.pdf")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, a.ID, sampleResult()))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, a.ID, complete[0].ID)

	byDoc, err := s.ListRuns(ctx, RunFilter{Document: "b.pdf"})
	require.NoError(t, err)
	require.Len(t, byDoc, 1)
	assert.Equal(t, "b.pdf", byDoc[0].Document)
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.CreateRun(ctx, "doc.pdf")
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, RunFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSQLite_ListRunItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "prisliste.pdf")
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, run.ID, sampleResult()))

	items, err := s.ListRunItems(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Insertion order preserved.
	assert.Equal(t, "aygox_active_72hp_manual", items[0].ID)
	assert.Equal(t, "aygox_pulse_72hp_auto", items[1].ID)
	assert.Equal(t, 2699, items[0].MonthlyPrice)
}

func TestSQLite_ListRunItems_EmptyRun(t *testing.T) {
	s := newTestStore(t)
	items, err := s.ListRunItems(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, items)
}
