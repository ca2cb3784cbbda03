package models

import (
	"strconv"
	"strings"
	"time"
)

// RaceResult is a race entry with its recorded outcome.
// FinishPosition 0 means the horse was scratched or disqualified and
// is excluded from every rate and average computation.
type RaceResult struct {
	RaceID         string   `db:"race_id" json:"race_id" validate:"required"`
	HorseID        string   `db:"horse_id" json:"horse_id" validate:"required"`
	HorseNumber    int      `db:"horse_number" json:"horse_number"`
	BracketNumber  int      `db:"bracket_number" json:"bracket_number"`
	FinishPosition int      `db:"finish_position" json:"finish_position" validate:"gte=0"`
	Time           string   `db:"time" json:"time"`
	Last3F         *float64 `db:"last_3f" json:"last_3f"`
	Odds           *float64 `db:"odds" json:"odds"`
	Popularity     *int     `db:"popularity" json:"popularity"`
	PassingOrder   string   `db:"passing_order" json:"passing_order"`
	Weight         *float64 `db:"weight" json:"weight"`
	WeightDiff     *float64 `db:"weight_diff" json:"weight_diff"`
	Impost         float64  `db:"impost" json:"impost"`
	Sex            string   `db:"sex" json:"sex"`
	Age            int      `db:"age" json:"age"`
	JockeyName     string   `db:"jockey_name" json:"jockey_name"`
}

// Finished reports whether the horse completed the race.
func (r *RaceResult) Finished() bool {
	return r.FinishPosition >= 1
}

// PastResult is one past-race record for a horse, as supplied by the
// past-results collaborator. It carries both the horse's own outcome
// and enough race context for the factors.
type PastResult struct {
	HorseID        string         `json:"horse_id"`
	RaceID         string         `json:"race_id"`
	RaceName       string         `json:"race_name"`
	RaceDate       time.Time      `json:"race_date"`
	Venue          string         `json:"course"`
	Surface        Surface        `json:"surface"`
	Distance       int            `json:"distance"`
	TrackCondition TrackCondition `json:"track_condition"`
	FinishPosition int            `json:"finish_position"`
	TotalRunners   int            `json:"total_runners"`
	Time           string         `json:"time"`
	Last3F         *float64       `json:"last_3f"`
	Odds           *float64       `json:"odds"`
	Popularity     *int           `json:"popularity"`
	PassingOrder   string         `json:"passing_order"`
}

// Finished reports whether the horse completed the race.
func (p *PastResult) Finished() bool {
	return p.FinishPosition >= 1
}

// FirstCornerPosition parses the leading element of the dash-separated
// passing order (e.g. "3-3-2-1" -> 3). Returns false when the order is
// absent or malformed.
func (p *PastResult) FirstCornerPosition() (int, bool) {
	if p.PassingOrder == "" {
		return 0, false
	}
	first := p.PassingOrder
	if i := strings.IndexByte(first, '-'); i >= 0 {
		first = first[:i]
	}
	pos, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil || pos <= 0 {
		return 0, false
	}
	return pos, true
}
