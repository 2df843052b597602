package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndFindings(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()

	run := Run{
		BuildID:   "b-1",
		Locale:    "en",
		StartedAt: time.UnixMilli(1_700_000_000_000),
		Duration:  1500 * time.Millisecond,
		Digest:    "abc",
		Outcome:   "failed",
		Pages:     3,
		Links:     5,
		Errors:    1,
		Warnings:  1,
		Findings: []linkcheck.Finding{
			{Kind: linkcheck.KindMissingSlug, Severity: linkcheck.SeverityError, Slug: "x", Path: []string{"Guides", "Deep"}, Message: "missing"},
			{Kind: linkcheck.KindOrphanPage, Severity: linkcheck.SeverityWarning, Slug: "y", Message: "orphan"},
		},
	}
	require.NoError(t, s.Record(ctx, run))

	findings, err := s.Findings(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, run.Findings, findings)

	none, err := s.Findings(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecent(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	base := time.UnixMilli(1_700_000_000_000)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Record(ctx, Run{
			BuildID:   id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Duration:  time.Second,
			Digest:    "d-" + id,
			Outcome:   "success",
		}))
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].BuildID)
	assert.Equal(t, "b", runs[1].BuildID)
	assert.Equal(t, time.Second, runs[0].Duration)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Nil(t, runs[0].Findings)
}

func TestRecord_DuplicateRunRejected(t *testing.T) {
	s := newStore(t)
	ctx := t.Context()
	run := Run{BuildID: "same", Locale: "en", StartedAt: time.Now(), Outcome: "success"}
	require.NoError(t, s.Record(ctx, run))
	require.Error(t, s.Record(ctx, run))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(t.Context(), Run{BuildID: "p", StartedAt: time.Now(), Outcome: "success"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	runs, err := reopened.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "p", runs[0].BuildID)
}
