package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasingborsen/pricelist-cli/internal/model"
	"github.com/leasingborsen/pricelist-cli/internal/pipeline"
	"github.com/leasingborsen/pricelist-cli/internal/store"
	"github.com/leasingborsen/pricelist-cli/internal/template"
)

func newCmdStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestExtractDocument(t *testing.T) {
	p, err := pipeline.New(template.Default())
	require.NoError(t, err)

	result, err := extractDocument(context.Background(), &stubSource{pages: aygoPages()}, p, "prisliste.pdf")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "aygox_active_72hp_manual", result.Items[0].ID)
}

func TestExtractDocument_SourceError(t *testing.T) {
	p, err := pipeline.New(template.Default())
	require.NoError(t, err)

	_, err = extractDocument(context.Background(), &stubSource{err: assert.AnError}, p, "missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}

func TestSaveRun_Complete(t *testing.T) {
	st := newCmdStore(t)
	ctx := context.Background()

	result := &model.ExtractionResult{
		Success: true,
		Items: []model.IdentifiedVariant{{
			NormalizedVariant: model.NormalizedVariant{
				RawCandidate: model.RawCandidate{Model: "AYGO X", MonthlyPrice: 2699},
			},
			ID: "aygox_active_72hp_manual",
		}},
	}

	runID, err := saveRun(ctx, st, "prisliste.pdf", result)
	require.NoError(t, err)

	run, err := st.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)

	items, err := st.ListRunItems(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSaveRun_Failed(t *testing.T) {
	st := newCmdStore(t)
	ctx := context.Background()

	runID, err := saveRun(ctx, st, "empty.pdf", model.Failed("no pages in document"))
	require.NoError(t, err)

	run, err := st.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Equal(t, "no pages in document", run.Error)
}
