package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// testRepo connects to the database named by DATABASE_URL, or skips.
func testRepo(t *testing.T) *RunRepository {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	repo := NewRunRepository(pool)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func sampleRun(id string, generatedAt time.Time) *contracts.RankingRun {
	return &contracts.RankingRun{
		ID:          id,
		Philosophy:  "buffett",
		ConfigHash:  "deadbeef",
		GeneratedAt: generatedAt,
		TotalIn:     1,
		TotalRanked: 1,
		Ranked: []contracts.RankedCompany{
			{Rank: 1, Symbol: "TCS", Name: "TCS Ltd", Sector: "IT", FinalScore: 132.4},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := sampleRun("it-save-"+time.Now().Format("150405.000000"), time.Now().UTC())
	require.NoError(t, repo.SaveRun(ctx, run))
	// Idempotent on conflict
	require.NoError(t, repo.SaveRun(ctx, run))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "buffett", got.Philosophy)
	assert.Equal(t, "deadbeef", got.ConfigHash)
	assert.Equal(t, 1, got.TotalRanked)
	require.Len(t, got.Ranked, 1)
	assert.Equal(t, "TCS", got.Ranked[0].Symbol)
	assert.Equal(t, 132.4, got.Ranked[0].FinalScore)
}

func TestGetRunNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, contracts.ErrRunNotFound)

	_, err = repo.LatestRun(context.Background(), "no-such-philosophy")
	assert.ErrorIs(t, err, contracts.ErrRunNotFound)
}

func TestLatestRunPicksNewest(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	stamp := time.Now().Format("150405.000000")
	older := sampleRun("it-older-"+stamp, time.Now().UTC().Add(-time.Hour))
	newer := sampleRun("it-newer-"+stamp, time.Now().UTC())
	require.NoError(t, repo.SaveRun(ctx, older))
	require.NoError(t, repo.SaveRun(ctx, newer))

	got, err := repo.LatestRun(ctx, "buffett")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	old := sampleRun("it-old-"+time.Now().Format("150405.000000"), time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, repo.SaveRun(ctx, old))

	deleted, err := repo.DeleteOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	_, err = repo.GetRun(ctx, old.ID)
	assert.ErrorIs(t, err, contracts.ErrRunNotFound)
}
