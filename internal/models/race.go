package models

import "time"

// Surface identifies the racing surface.
type Surface string

const (
	SurfaceTurf   Surface = "turf"
	SurfaceDirt   Surface = "dirt"
	SurfaceHurdle Surface = "hurdle"
)

// TrackCondition is the official going, when recorded.
type TrackCondition string

const (
	TrackFirm    TrackCondition = "firm"
	TrackGood    TrackCondition = "good"
	TrackSoft    TrackCondition = "soft"
	TrackHeavy   TrackCondition = "heavy"
	TrackUnknown TrackCondition = ""
)

// Race represents one race. Races are created by the ingest path and
// read-only thereafter.
type Race struct {
	ID             string         `db:"id" json:"id" validate:"required"`
	Name           string         `db:"name" json:"name"`
	Date           time.Time      `db:"date" json:"date" validate:"required"`
	Venue          string         `db:"venue" json:"venue"`
	Number         int            `db:"race_number" json:"race_number" validate:"gte=0"`
	Surface        Surface        `db:"surface" json:"surface"`
	Distance       int            `db:"distance" json:"distance" validate:"gt=0"`
	TrackCondition TrackCondition `db:"track_condition" json:"track_condition"`
}

// DateString returns the race date in wire format.
func (r *Race) DateString() string {
	return r.Date.Format("2006-01-02")
}

// DistanceBand buckets a distance in meters into the four standard
// bands used by course-fit and pedigree aptitude lookups.
type DistanceBand string

const (
	BandSprint DistanceBand = "sprint"
	BandMile   DistanceBand = "mile"
	BandMiddle DistanceBand = "middle"
	BandLong   DistanceBand = "long"
)

// DistanceBandOf maps a distance in meters to its band.
func DistanceBandOf(distance int) DistanceBand {
	switch {
	case distance <= 1400:
		return BandSprint
	case distance <= 1800:
		return BandMile
	case distance <= 2200:
		return BandMiddle
	default:
		return BandLong
	}
}
