package simulation

import (
	"context"
	"fmt"

	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

// CardSource supplies race cards for on-demand prediction.
type CardSource interface {
	GetRaceCard(ctx context.Context, raceID string) (models.RaceCard, error)
}

// ServiceProvider predicts a race through the prediction service and
// exposes the ranked top-N horse numbers. The model is fixed for the
// life of the provider; simulations never retrain mid-period.
type ServiceProvider struct {
	cards   CardSource
	service *prediction.Service
	model   ml.Predictor
}

// NewServiceProvider wires a provider to its card source and service.
// A nil model runs factor-only predictions.
func NewServiceProvider(cards CardSource, service *prediction.Service, model ml.Predictor) (*ServiceProvider, error) {
	if cards == nil {
		return nil, fmt.Errorf("prediction provider: card source is required")
	}
	if service == nil {
		return nil, fmt.Errorf("prediction provider: prediction service is required")
	}
	return &ServiceProvider{cards: cards, service: service, model: model}, nil
}

// PredictTopN returns the predicted horse numbers for a race, best
// first. Races without predictions (debut races) return an error so
// the simulators skip them.
func (p *ServiceProvider) PredictTopN(ctx context.Context, raceID string, n int) ([]int, error) {
	card, err := p.cards.GetRaceCard(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("race card: %w", err)
	}

	results, err := p.service.PredictRace(ctx, card, p.model)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("race %s: no predictions", raceID)
	}

	if n > len(results) {
		n = len(results)
	}
	numbers := make([]int, n)
	for i := 0; i < n; i++ {
		numbers[i] = results[i].HorseNumber
	}
	return numbers, nil
}
