package factors

import "github.com/yourusername/keiba-engine/internal/models"

// Style is a running-style classification inferred from first-corner
// position.
type Style string

const (
	StyleEscape  Style = "escape"
	StyleFront   Style = "front"
	StyleStalker Style = "stalker"
	StyleCloser  Style = "closer"
)

// DefaultCourseStats are the per-style win rates used when no
// course-specific statistics are supplied.
var DefaultCourseStats = map[Style]float64{
	StyleEscape:  0.15,
	StyleFront:   0.35,
	StyleStalker: 0.35,
	StyleCloser:  0.15,
}

const defaultStyleWinRate = 0.25

// RunningStyleFactor infers the horse's habitual running style from
// its recent first-corner positions and scores how well that style
// performs on the target course.
type RunningStyleFactor struct{}

func (f *RunningStyleFactor) Name() string { return NameRunningStyle }

func (f *RunningStyleFactor) Calculate(ctx Context) models.Score {
	style, ok := f.tendency(ctx)
	if !ok {
		return models.NoScore()
	}

	stats := ctx.CourseStats
	if stats == nil {
		stats = DefaultCourseStats
	}
	rate, ok := stats[style]
	if !ok {
		rate = defaultStyleWinRate
	}

	score := clamp((rate-0.05)/0.35*100, 0, 100)
	return models.NewScore(round1(score))
}

// ClassifyStyle maps a first-corner position to a style given the
// field size. Returns false when the position cannot be classified.
func ClassifyStyle(firstCorner, totalRunners int) (Style, bool) {
	if firstCorner <= 0 || totalRunners <= 0 {
		return "", false
	}
	ratio := float64(firstCorner) / float64(totalRunners)
	switch {
	case ratio <= 0.15:
		return StyleEscape, true
	case ratio <= 0.40:
		return StyleFront, true
	case ratio <= 0.70:
		return StyleStalker, true
	default:
		return StyleCloser, true
	}
}

// tendency returns the modal style of the horse's five most recent
// classifiable past races. Ties resolve to the style seen first.
func (f *RunningStyleFactor) tendency(ctx Context) (Style, bool) {
	counts := make(map[Style]int, 4)
	var order []Style
	classified := 0

	for _, r := range ctx.PastResults {
		if r.HorseID != ctx.HorseID || r.TotalRunners <= 0 {
			continue
		}
		first, ok := r.FirstCornerPosition()
		if !ok {
			continue
		}
		style, ok := ClassifyStyle(first, r.TotalRunners)
		if !ok {
			continue
		}
		if counts[style] == 0 {
			order = append(order, style)
		}
		counts[style]++
		classified++
		if classified == 5 {
			break
		}
	}
	if classified == 0 {
		return "", false
	}

	var best Style
	bestCount := -1
	for _, style := range order {
		if counts[style] > bestCount {
			best = style
			bestCount = counts[style]
		}
	}
	return best, true
}
