package backtest

import (
	"sort"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/models"
)

// AccuracyReport aggregates prediction quality over a finished run.
// Rates are over races where the metric was measurable; a race with
// no predictions contributes nothing.
type AccuracyReport struct {
	TotalRaces int `json:"total_races"`

	// WinHitRate is how often the top-ranked horse won outright.
	WinHitRate float64 `json:"win_hit_rate"`

	// PrecisionAtK is, per k, the mean share of the predicted top-k
	// that finished in the official top 3.
	PrecisionAtK map[int]float64 `json:"precision_at_k"`

	// HitRateByRank is, per predicted rank, how often that horse
	// finished in the official top 3.
	HitRateByRank map[int]float64 `json:"hit_rate_by_rank"`

	// FactorHitRates ranks each race by a single factor and reports
	// how often that factor's top pick finished in the top 3. Useful
	// for comparing factors against the combined ranking.
	FactorHitRates map[string]float64 `json:"factor_hit_rates"`
}

// MetricsCalculator folds a stream of race results into an
// AccuracyReport.
type MetricsCalculator struct {
	ks []int

	races        int
	winHits      int
	winRaces     int
	precisionSum map[int]float64
	precisionN   map[int]int
	rankHits     map[int]int
	rankN        map[int]int
	factorHits   map[string]int
	factorN      map[string]int
}

// NewMetricsCalculator tracks precision at the given cutoffs
// (defaults to 1, 2, 3).
func NewMetricsCalculator(ks ...int) *MetricsCalculator {
	if len(ks) == 0 {
		ks = []int{1, 2, 3}
	}
	return &MetricsCalculator{
		ks:           ks,
		precisionSum: make(map[int]float64),
		precisionN:   make(map[int]int),
		rankHits:     make(map[int]int),
		rankN:        make(map[int]int),
		factorHits:   make(map[string]int),
		factorN:      make(map[string]int),
	}
}

// Observe folds one race into the running totals.
func (m *MetricsCalculator) Observe(result models.RaceBacktestResult) {
	if len(result.Predictions) == 0 {
		return
	}
	m.races++

	ordered := make([]models.BacktestPrediction, len(result.Predictions))
	copy(ordered, result.Predictions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	m.observeWin(ordered)
	m.observePrecision(ordered)
	m.observeRanks(ordered)
	m.observeFactors(ordered)
}

func (m *MetricsCalculator) observeWin(ordered []models.BacktestPrediction) {
	top := ordered[0]
	if top.ActualRank == unknownActualRank {
		return
	}
	m.winRaces++
	if top.ActualRank == 1 {
		m.winHits++
	}
}

func (m *MetricsCalculator) observePrecision(ordered []models.BacktestPrediction) {
	for _, k := range m.ks {
		if len(ordered) < k {
			continue
		}
		hits := 0
		known := 0
		for _, p := range ordered[:k] {
			if p.ActualRank == unknownActualRank {
				continue
			}
			known++
			if p.ActualRank <= 3 {
				hits++
			}
		}
		if known == 0 {
			continue
		}
		m.precisionSum[k] += float64(hits) / float64(k)
		m.precisionN[k]++
	}
}

func (m *MetricsCalculator) observeRanks(ordered []models.BacktestPrediction) {
	for _, p := range ordered {
		if p.ActualRank == unknownActualRank {
			continue
		}
		m.rankN[p.Rank]++
		if p.ActualRank <= 3 {
			m.rankHits[p.Rank]++
		}
	}
}

func (m *MetricsCalculator) observeFactors(ordered []models.BacktestPrediction) {
	for _, name := range factors.FactorNames {
		best := -1
		bestScore := 0.0
		for i, p := range ordered {
			v, ok := p.FactorScores[name].Value()
			if !ok {
				continue
			}
			if best < 0 || v > bestScore {
				best = i
				bestScore = v
			}
		}
		if best < 0 || ordered[best].ActualRank == unknownActualRank {
			continue
		}
		m.factorN[name]++
		if ordered[best].ActualRank <= 3 {
			m.factorHits[name]++
		}
	}
}

// Report snapshots the accumulated metrics.
func (m *MetricsCalculator) Report() AccuracyReport {
	report := AccuracyReport{
		TotalRaces:     m.races,
		PrecisionAtK:   make(map[int]float64, len(m.ks)),
		HitRateByRank:  make(map[int]float64, len(m.rankN)),
		FactorHitRates: make(map[string]float64, len(m.factorN)),
	}
	if m.winRaces > 0 {
		report.WinHitRate = float64(m.winHits) / float64(m.winRaces)
	}
	for _, k := range m.ks {
		if n := m.precisionN[k]; n > 0 {
			report.PrecisionAtK[k] = m.precisionSum[k] / float64(n)
		}
	}
	for rank, n := range m.rankN {
		report.HitRateByRank[rank] = float64(m.rankHits[rank]) / float64(n)
	}
	for name, n := range m.factorN {
		report.FactorHitRates[name] = float64(m.factorHits[name]) / float64(n)
	}
	return report
}
