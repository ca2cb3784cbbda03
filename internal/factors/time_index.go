package factors

import (
	"strconv"
	"strings"

	"github.com/yourusername/keiba-engine/internal/models"
)

const (
	timeIndexMinPeers     = 3
	timeIndexDistanceBand = 200 // meters either side of the target
)

// TimeIndexFactor compares the horse's recorded times against peer
// races run under comparable conditions. One second faster than the
// peer mean is worth ten points above the 50-point baseline.
type TimeIndexFactor struct{}

func (f *TimeIndexFactor) Name() string { return NameTimeIndex }

func (f *TimeIndexFactor) Calculate(ctx Context) models.Score {
	if ctx.TargetSurface == "" || ctx.TargetDistance <= 0 {
		return models.NoScore()
	}

	peers := make([]models.PastResult, 0, len(ctx.PastResults))
	for _, r := range ctx.PastResults {
		if r.Surface != ctx.TargetSurface {
			continue
		}
		if abs(r.Distance-ctx.TargetDistance) > timeIndexDistanceBand {
			continue
		}
		if r.Time == "" {
			continue
		}
		if ctx.TrackCondition != models.TrackUnknown && r.TrackCondition != ctx.TrackCondition {
			continue
		}
		peers = append(peers, r)
	}
	if len(peers) < timeIndexMinPeers {
		return models.NoScore()
	}

	var allSum, horseSum float64
	var allN, horseN int
	for _, r := range peers {
		sec, ok := ParseRaceTime(r.Time)
		if !ok {
			continue
		}
		allSum += sec
		allN++
		if r.HorseID == ctx.HorseID {
			horseSum += sec
			horseN++
		}
	}
	if horseN == 0 || allN == 0 {
		return models.NoScore()
	}

	diff := allSum/float64(allN) - horseSum/float64(horseN)
	return models.NewScore(clamp(round1(50+diff*10), 0, 100))
}

// ParseRaceTime converts a race time string of the form "m:ss.s" or
// "ss.s" into seconds. Malformed input returns false.
func ParseRaceTime(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		minutes, err := strconv.Atoi(s[:i])
		if err != nil || minutes < 0 {
			return 0, false
		}
		seconds, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil || seconds < 0 {
			return 0, false
		}
		return float64(minutes)*60 + seconds, true
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return seconds, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
