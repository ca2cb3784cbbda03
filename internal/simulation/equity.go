package simulation

import (
	"bytes"
	"math"
	"strconv"
)

// EquityPoint is the bankroll after settling one simulated race.
type EquityPoint struct {
	RaceID   string  `json:"race_id"`
	RaceDate string  `json:"race_date"`
	Bankroll float64 `json:"bankroll"`
	Drawdown float64 `json:"drawdown"`
	PnL      float64 `json:"pnl"`
}

// EquityCurve is the bankroll trajectory over a simulated period, one
// point per settled race in chronological order.
type EquityCurve []EquityPoint

// BuildEquityCurve replays the per-race records against a starting
// bankroll. Records are taken in the order the period produced them,
// which is date then race number.
func BuildEquityCurve(records []RaceRecord, initialBankroll float64) EquityCurve {
	curve := make(EquityCurve, 0, len(records))
	bankroll := initialBankroll
	peak := initialBankroll

	for _, r := range records {
		payout, _ := r.Payout.Float64()
		investment, _ := r.Investment.Float64()
		pnl := payout - investment
		bankroll += pnl
		if bankroll > peak {
			peak = bankroll
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - bankroll) / peak
		}
		curve = append(curve, EquityPoint{
			RaceID:   r.RaceID,
			RaceDate: r.RaceDate,
			Bankroll: bankroll,
			Drawdown: drawdown,
			PnL:      pnl,
		})
	}
	return curve
}

// MaxDrawdown returns the largest peak-to-trough decline as a fraction
// of the peak.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	for _, p := range e {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
	}
	return maxDD
}

// FinalBankroll returns the bankroll after the last settled race, or 0
// for an empty curve.
func (e EquityCurve) FinalBankroll() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Bankroll
}

// GetReturns calculates per-race returns from the curve.
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Bankroll
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Bankroll-prev)/prev)
	}
	return returns
}

// GetVolatility calculates the standard deviation of per-race returns.
func (e EquityCurve) GetVolatility() float64 {
	returns := e.GetReturns()
	if len(returns) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// ToCSV exports the curve as CSV for spreadsheets.
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("race_id,race_date,bankroll,drawdown,pnl\n")
	for _, point := range e {
		buf.WriteString(point.RaceID)
		buf.WriteString(",")
		buf.WriteString(point.RaceDate)
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Bankroll))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
