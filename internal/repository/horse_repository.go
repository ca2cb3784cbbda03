package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/models"
)

const horseColumns = `id, name, sex, birth_year, sire, dam, dam_sire`

// PostgresHorseRepository implements HorseRepository for PostgreSQL
type PostgresHorseRepository struct {
	db *database.DB
}

// NewPostgresHorseRepository creates a new horse repository
func NewPostgresHorseRepository(db *database.DB) *PostgresHorseRepository {
	return &PostgresHorseRepository{db: db}
}

// GetByID retrieves a horse by ID
func (r *PostgresHorseRepository) GetByID(ctx context.Context, id string) (*models.Horse, error) {
	query := `SELECT ` + horseColumns + ` FROM horses WHERE id = $1`

	horse := &models.Horse{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&horse.ID, &horse.Name, &horse.Sex, &horse.BirthYear,
		&horse.Sire, &horse.Dam, &horse.DamSire,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("horse %s: %w", id, models.ErrHorseNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get horse: %w", err)
	}

	return horse, nil
}

// GetByIDs retrieves horses by ID in one round trip. Missing IDs are
// simply absent from the returned map.
func (r *PostgresHorseRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.Horse, error) {
	if len(ids) == 0 {
		return map[string]models.Horse{}, nil
	}

	query := `SELECT ` + horseColumns + ` FROM horses WHERE id = ANY($1)`

	rows, err := r.db.GetPool().Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query horses: %w", err)
	}
	defer rows.Close()

	horses := make(map[string]models.Horse, len(ids))
	for rows.Next() {
		var horse models.Horse
		err := rows.Scan(
			&horse.ID, &horse.Name, &horse.Sex, &horse.BirthYear,
			&horse.Sire, &horse.Dam, &horse.DamSire,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan horse: %w", err)
		}
		horses[horse.ID] = horse
	}

	return horses, rows.Err()
}
