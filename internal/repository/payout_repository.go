package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/models"
)

// Bet type discriminators in the payouts table.
const (
	betTypeShow     = "show"
	betTypeWin      = "win"
	betTypeQuinella = "quinella"
	betTypeTrio     = "trio"
)

// PostgresPayoutRepository implements PayoutRepository for PostgreSQL.
// All bet types live in one payouts table keyed by (race_id, bet_type)
// with up to three horse number columns.
type PostgresPayoutRepository struct {
	db *database.DB
}

// NewPostgresPayoutRepository creates a new payout repository
func NewPostgresPayoutRepository(db *database.DB) *PostgresPayoutRepository {
	return &PostgresPayoutRepository{db: db}
}

// GetShowPayouts retrieves the show payouts for a race, one row per
// placing horse.
func (r *PostgresPayoutRepository) GetShowPayouts(ctx context.Context, raceID string) ([]models.ShowPayout, error) {
	query := `
		SELECT horse_number_1, amount
		FROM payouts
		WHERE race_id = $1 AND bet_type = $2
		ORDER BY horse_number_1 ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceID, betTypeShow)
	if err != nil {
		return nil, fmt.Errorf("failed to query show payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.ShowPayout
	for rows.Next() {
		var p models.ShowPayout
		if err := rows.Scan(&p.HorseNumber, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan show payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read show payouts: %w", err)
	}
	if len(payouts) == 0 {
		return nil, fmt.Errorf("race %s show: %w", raceID, models.ErrNoPayoutData)
	}

	return payouts, nil
}

// GetWinPayout retrieves the win payout for a race.
func (r *PostgresPayoutRepository) GetWinPayout(ctx context.Context, raceID string) (models.WinPayout, error) {
	query := `
		SELECT horse_number_1, amount
		FROM payouts
		WHERE race_id = $1 AND bet_type = $2
	`

	var p models.WinPayout
	err := r.db.GetPool().QueryRow(ctx, query, raceID, betTypeWin).Scan(&p.HorseNumber, &p.Amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WinPayout{}, fmt.Errorf("race %s win: %w", raceID, models.ErrNoPayoutData)
	}
	if err != nil {
		return models.WinPayout{}, fmt.Errorf("failed to get win payout: %w", err)
	}

	return p, nil
}

// GetQuinellaPayout retrieves the quinella payout for a race.
func (r *PostgresPayoutRepository) GetQuinellaPayout(ctx context.Context, raceID string) (models.QuinellaPayout, error) {
	query := `
		SELECT horse_number_1, horse_number_2, amount
		FROM payouts
		WHERE race_id = $1 AND bet_type = $2
	`

	var a, b int
	var amount decimal.Decimal
	err := r.db.GetPool().QueryRow(ctx, query, raceID, betTypeQuinella).Scan(&a, &b, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.QuinellaPayout{}, fmt.Errorf("race %s quinella: %w", raceID, models.ErrNoPayoutData)
	}
	if err != nil {
		return models.QuinellaPayout{}, fmt.Errorf("failed to get quinella payout: %w", err)
	}

	return models.NewQuinellaPayout(a, b, amount), nil
}

// GetTrioPayout retrieves the trio payout for a race.
func (r *PostgresPayoutRepository) GetTrioPayout(ctx context.Context, raceID string) (models.TrioPayout, error) {
	query := `
		SELECT horse_number_1, horse_number_2, horse_number_3, amount
		FROM payouts
		WHERE race_id = $1 AND bet_type = $2
	`

	var a, b, c int
	var amount decimal.Decimal
	err := r.db.GetPool().QueryRow(ctx, query, raceID, betTypeTrio).Scan(&a, &b, &c, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.TrioPayout{}, fmt.Errorf("race %s trio: %w", raceID, models.ErrNoPayoutData)
	}
	if err != nil {
		return models.TrioPayout{}, fmt.Errorf("failed to get trio payout: %w", err)
	}

	return models.NewTrioPayout(a, b, c, amount), nil
}
