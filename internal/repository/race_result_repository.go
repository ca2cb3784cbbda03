package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/models"
)

// PostgresRaceResultRepository implements RaceResultRepository for PostgreSQL
type PostgresRaceResultRepository struct {
	db *database.DB
}

// NewPostgresRaceResultRepository creates a new result repository
func NewPostgresRaceResultRepository(db *database.DB) *PostgresRaceResultRepository {
	return &PostgresRaceResultRepository{db: db}
}

// GetByRaceID retrieves the recorded results for a race, ordered by
// finish position with non-finishers last.
func (r *PostgresRaceResultRepository) GetByRaceID(ctx context.Context, raceID string) ([]models.RaceResult, error) {
	query := `
		SELECT race_id, horse_id, horse_number, bracket_number, finish_position,
		       time, last_3f, odds, popularity, passing_order,
		       weight, weight_diff, impost, sex, age, jockey_name
		FROM race_results
		WHERE race_id = $1
		ORDER BY CASE WHEN finish_position >= 1 THEN finish_position ELSE 999 END ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query race results: %w", err)
	}
	defer rows.Close()

	var results []models.RaceResult
	for rows.Next() {
		var res models.RaceResult
		err := rows.Scan(
			&res.RaceID, &res.HorseID, &res.HorseNumber, &res.BracketNumber, &res.FinishPosition,
			&res.Time, &res.Last3F, &res.Odds, &res.Popularity, &res.PassingOrder,
			&res.Weight, &res.WeightDiff, &res.Impost, &res.Sex, &res.Age, &res.JockeyName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race result: %w", err)
		}
		results = append(results, res)
	}

	return results, rows.Err()
}

// GetPastResults retrieves a horse's results from races run strictly
// before the given date, most recent first. total_runners counts every
// horse that started, non-finishers included.
func (r *PostgresRaceResultRepository) GetPastResults(ctx context.Context, horseID string, before time.Time, limit int) ([]models.PastResult, error) {
	query := `
		SELECT rr.horse_id, rr.race_id, ra.name, ra.date, ra.venue,
		       ra.surface, ra.distance, ra.track_condition,
		       rr.finish_position,
		       (SELECT COUNT(*) FROM race_results c WHERE c.race_id = rr.race_id) AS total_runners,
		       rr.time, rr.last_3f, rr.odds, rr.popularity, rr.passing_order
		FROM race_results rr
		JOIN races ra ON ra.id = rr.race_id
		WHERE rr.horse_id = $1 AND ra.date < $2
		ORDER BY ra.date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, horseID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query past results: %w", err)
	}
	defer rows.Close()

	var results []models.PastResult
	for rows.Next() {
		var past models.PastResult
		err := rows.Scan(
			&past.HorseID, &past.RaceID, &past.RaceName, &past.RaceDate, &past.Venue,
			&past.Surface, &past.Distance, &past.TrackCondition,
			&past.FinishPosition, &past.TotalRunners,
			&past.Time, &past.Last3F, &past.Odds, &past.Popularity, &past.PassingOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan past result: %w", err)
		}
		results = append(results, past)
	}

	return results, rows.Err()
}
