//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/repository"
)

const skipIntegration = "Skipping integration test in short mode"

// TestDatabaseRepositoryIntegration exercises the read repositories
// against a real PostgreSQL with seeded race data.
func TestDatabaseRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)
	cleanTables(t, ctx, db)

	seedRaceDay(t, ctx, db)

	t.Run("RaceRepository", func(t *testing.T) {
		repo := repository.NewPostgresRaceRepository(db)

		race, err := repo.GetByID(ctx, "202405021211")
		require.NoError(t, err)
		assert.Equal(t, "東京", race.Venue)
		assert.Equal(t, 11, race.Number)
		assert.Equal(t, 1600, race.Distance)

		_, err = repo.GetByID(ctx, "nonexistent")
		assert.ErrorIs(t, err, models.ErrRaceNotFound)

		start, _ := time.Parse("2006-01-02", "2024-05-01")
		end, _ := time.Parse("2006-01-02", "2024-05-31")
		races, err := repo.GetByDateRange(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, races, 2)
		assert.True(t, races[0].Date.Before(races[1].Date) ||
			races[0].Number < races[1].Number)
	})

	t.Run("RaceCard", func(t *testing.T) {
		repo := repository.NewPostgresRaceRepository(db)

		card, err := repo.GetRaceCard(ctx, "202405021211")
		require.NoError(t, err)
		require.Len(t, card.Entries, 2)
		assert.Equal(t, 1, card.Entries[0].HorseNumber)
		assert.Equal(t, "テストホース１", card.Entries[0].HorseName)
	})

	t.Run("RaceResultRepository", func(t *testing.T) {
		repo := repository.NewPostgresRaceResultRepository(db)

		results, err := repo.GetByRaceID(ctx, "202404281005")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 1, results[0].FinishPosition)

		before, _ := time.Parse("2006-01-02", "2024-05-02")
		past, err := repo.GetPastResults(ctx, "horse-1", before, 10)
		require.NoError(t, err)
		require.Len(t, past, 1)
		assert.Equal(t, "202404281005", past[0].RaceID)
		assert.Equal(t, 2, past[0].TotalRunners)
	})

	t.Run("HorseRepository", func(t *testing.T) {
		repo := repository.NewPostgresHorseRepository(db)

		horse, err := repo.GetByID(ctx, "horse-1")
		require.NoError(t, err)
		assert.Equal(t, "テストホース１", horse.Name)

		horses, err := repo.GetByIDs(ctx, []string{"horse-1", "horse-2", "missing"})
		require.NoError(t, err)
		assert.Len(t, horses, 2)
	})

	t.Run("PayoutRepository", func(t *testing.T) {
		repo := repository.NewPostgresPayoutRepository(db)

		show, err := repo.GetShowPayouts(ctx, "202404281005")
		require.NoError(t, err)
		require.Len(t, show, 2)

		win, err := repo.GetWinPayout(ctx, "202404281005")
		require.NoError(t, err)
		assert.Equal(t, 1, win.HorseNumber)

		_, err = repo.GetWinPayout(ctx, "202405021211")
		assert.ErrorIs(t, err, models.ErrNoPayoutData)
	})
}

// TestConcurrentReads verifies the pool under parallel repository reads.
func TestConcurrentReads(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)
	cleanTables(t, ctx, db)

	seedRaceDay(t, ctx, db)
	repo := repository.NewPostgresRaceRepository(db)

	var wg sync.WaitGroup
	concurrency := 20
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			race, err := repo.GetByID(ctx, "202405021211")
			assert.NoError(t, err)
			assert.Equal(t, "東京", race.Venue)
		}()
	}
	wg.Wait()
}

// TestSchemaTables verifies the expected tables exist.
func TestSchemaTables(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	tables := []string{"races", "horses", "race_entries", "race_results", "payouts"}
	for _, table := range tables {
		var exists bool
		query := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_name = $1
			)
		`
		err := db.GetPool().QueryRow(ctx, query, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "Table %s should exist", table)
	}
}

func cleanTables(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	for _, table := range []string{"payouts", "race_results", "race_entries", "races", "horses"} {
		_, err := db.GetPool().Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}
}

// seedRaceDay inserts one finished race (2024-04-28) with results and
// payouts plus one upcoming card (2024-05-02) without either.
func seedRaceDay(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	pool := db.GetPool()

	exec := func(query string, args ...interface{}) {
		_, err := pool.Exec(ctx, query, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO horses (id, name, sex, birth_year, sire, dam, dam_sire)
	      VALUES ('horse-1', 'テストホース１', '牡', 2020, 'ディープインパクト', 'テストダム', 'キングカメハメハ'),
	             ('horse-2', 'テストホース２', '牝', 2020, 'ロードカナロア', 'テストダム２', 'ハーツクライ')`)

	exec(`INSERT INTO races (id, name, date, venue, race_number, surface, distance, track_condition)
	      VALUES ('202404281005', '芦屋特別(2勝クラス)', '2024-04-28', '阪神', 5, '芝', 1600, '良'),
	             ('202405021211', 'テスト記念(G3)', '2024-05-02', '東京', 11, '芝', 1600, '良')`)

	exec(`INSERT INTO race_entries (race_id, horse_id, horse_number, bracket_number, impost, sex, age, jockey_name, odds, popularity, weight, weight_diff)
	      VALUES ('202405021211', 'horse-1', 1, 1, 57.0, '牡', 4, 'テスト騎手', 3.2, 1, 480, 2),
	             ('202405021211', 'horse-2', 2, 2, 55.0, '牝', 4, 'テスト騎手２', 8.4, 3, 452, -4)`)

	exec(`INSERT INTO race_results (race_id, horse_id, horse_number, bracket_number, finish_position, time, last_3f, odds, popularity, passing_order, weight, weight_diff, impost, sex, age, jockey_name)
	      VALUES ('202404281005', 'horse-1', 1, 1, 1, 93.5, 33.8, 2.8, 1, '3-3-2', 478, 0, 57.0, '牡', 4, 'テスト騎手'),
	             ('202404281005', 'horse-2', 2, 2, 2, 93.7, 34.1, 6.5, 2, '5-5-4', 456, 2, 55.0, '牝', 4, 'テスト騎手２')`)

	exec(`INSERT INTO payouts (race_id, bet_type, horse_number_1, horse_number_2, horse_number_3, amount)
	      VALUES ('202404281005', 'win', 1, NULL, NULL, 280),
	             ('202404281005', 'show', 1, NULL, NULL, 130),
	             ('202404281005', 'show', 2, NULL, NULL, 180),
	             ('202404281005', 'quinella', 1, 2, NULL, 890),
	             ('202404281005', 'trio', 1, 2, 3, 2340)`)
}
