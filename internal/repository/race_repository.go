package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/models"
)

const errScanRace = "failed to scan race: %w"

const raceColumns = `id, name, date, venue, race_number, surface, distance, track_condition`

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) *PostgresRaceRepository {
	return &PostgresRaceRepository{db: db}
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id string) (*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races WHERE id = $1`

	race := &models.Race{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&race.ID, &race.Name, &race.Date, &race.Venue, &race.Number,
		&race.Surface, &race.Distance, &race.TrackCondition,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("race %s: %w", id, models.ErrRaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	return race, nil
}

// GetByDateRange retrieves races with date in [start, end], ordered
// ascending by date then race number.
func (r *PostgresRaceRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, race_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query races by date range: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// GetBefore retrieves every race strictly before the cutoff date,
// ordered ascending by date then race number.
func (r *PostgresRaceRepository) GetBefore(ctx context.Context, cutoff time.Time) ([]models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE date < $1
		ORDER BY date ASC, race_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query races before cutoff: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// GetRaceCard retrieves a race and its entries as a card. Entry odds
// and popularity are whatever the entries table holds; for finished
// races these are the final figures.
func (r *PostgresRaceRepository) GetRaceCard(ctx context.Context, raceID string) (models.RaceCard, error) {
	race, err := r.GetByID(ctx, raceID)
	if err != nil {
		return models.RaceCard{}, err
	}

	query := `
		SELECT e.horse_id, h.name, e.horse_number, e.bracket_number,
		       e.impost, e.sex, e.age, e.jockey_name,
		       e.odds, e.popularity, e.weight, e.weight_diff
		FROM race_entries e
		JOIN horses h ON h.id = e.horse_id
		WHERE e.race_id = $1
		ORDER BY e.horse_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID)
	if err != nil {
		return models.RaceCard{}, fmt.Errorf("failed to query race entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RaceEntry
	for rows.Next() {
		var e models.RaceEntry
		err := rows.Scan(
			&e.HorseID, &e.HorseName, &e.HorseNumber, &e.BracketNumber,
			&e.Impost, &e.Sex, &e.Age, &e.JockeyName,
			&e.Odds, &e.Popularity, &e.Weight, &e.WeightDiff,
		)
		if err != nil {
			return models.RaceCard{}, fmt.Errorf("failed to scan race entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return models.RaceCard{}, fmt.Errorf("failed to read race entries: %w", err)
	}

	return models.RaceCard{
		RaceID:         race.ID,
		RaceName:       race.Name,
		RaceNumber:     race.Number,
		Venue:          race.Venue,
		Date:           race.DateString(),
		Surface:        race.Surface,
		Distance:       race.Distance,
		TrackCondition: race.TrackCondition,
		Entries:        entries,
	}, nil
}

func scanRaces(rows pgx.Rows) ([]models.Race, error) {
	var races []models.Race
	for rows.Next() {
		var race models.Race
		err := rows.Scan(
			&race.ID, &race.Name, &race.Date, &race.Venue, &race.Number,
			&race.Surface, &race.Distance, &race.TrackCondition,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		races = append(races, race)
	}
	return races, rows.Err()
}
