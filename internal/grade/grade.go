// Package grade extracts the class tag of a race from its name.
package grade

import (
	"regexp"
	"strings"
)

// Grade is a race class tag derived from the race name.
type Grade string

const (
	G1           Grade = "G1"
	G2           Grade = "G2"
	G3           Grade = "G3"
	Jpn1         Grade = "Jpn1"
	Jpn2         Grade = "Jpn2"
	Jpn3         Grade = "Jpn3"
	Listed       Grade = "L"
	Open         Grade = "OP"
	Win3         Grade = "3WIN"
	Win2         Grade = "2WIN"
	Win1         Grade = "1WIN"
	Debut        Grade = "DEBUT"
	Maiden       Grade = "MAIDEN"
	HurdleOpen   Grade = "HURDLE_OP"
	HurdleMaiden Grade = "HURDLE_MAIDEN"
	HurdleWin3   Grade = "HURDLE_3WIN"
	HurdleWin2   Grade = "HURDLE_2WIN"
	HurdleWin1   Grade = "HURDLE_1WIN"
	Unknown      Grade = "UNKNOWN"
)

const hurdleMarker = "障害"

var (
	g1Pattern   = regexp.MustCompile(`(?i)\((G1|GI|J・G1|J・GI)\)`)
	g2Pattern   = regexp.MustCompile(`(?i)\((G2|GII|J・G2|J・GII)\)`)
	g3Pattern   = regexp.MustCompile(`(?i)\((G3|GIII|J・G3|J・GIII)\)`)
	jpn1Pattern = regexp.MustCompile(`(?i)\(Jpn1\)`)
	jpn2Pattern = regexp.MustCompile(`(?i)\(Jpn2\)`)
	jpn3Pattern = regexp.MustCompile(`(?i)\(Jpn3\)`)
	lPattern    = regexp.MustCompile(`(?i)\(L\)`)
	opPattern   = regexp.MustCompile(`\(OP\)|\(オープン\)|オープン`)

	hurdleWin3Pattern   = regexp.MustCompile(`障害.*3勝クラス`)
	hurdleWin2Pattern   = regexp.MustCompile(`障害.*2勝クラス`)
	hurdleWin1Pattern   = regexp.MustCompile(`障害.*1勝クラス`)
	hurdleOpenPattern   = regexp.MustCompile(`障害.*オープン`)
	hurdleMaidenPattern = regexp.MustCompile(`障害.*未勝利`)
)

// classPatterns map current class names and their legacy-numeric
// equivalents to the same tag.
var classPatterns = []struct {
	re    *regexp.Regexp
	grade Grade
}{
	{regexp.MustCompile(`3勝クラス`), Win3},
	{regexp.MustCompile(`2勝クラス`), Win2},
	{regexp.MustCompile(`1勝クラス`), Win1},
	{regexp.MustCompile(`1600万下`), Win3},
	{regexp.MustCompile(`1000万下`), Win2},
	{regexp.MustCompile(`500万下`), Win1},
}

// Extract determines the grade tag for a race name. Matching follows
// the fixed priority G1 > G2 > G3 > Jpn* > L > hurdle class > OP >
// class > DEBUT > MAIDEN; anything else is UNKNOWN.
func Extract(raceName string) Grade {
	if raceName == "" {
		return Unknown
	}

	// Normalize full-width parentheses before pattern matching.
	name := strings.NewReplacer("（", "(", "）", ")").Replace(raceName)
	isHurdle := strings.Contains(name, hurdleMarker)

	switch {
	case g1Pattern.MatchString(name):
		return G1
	case g2Pattern.MatchString(name):
		return G2
	case g3Pattern.MatchString(name):
		return G3
	case jpn1Pattern.MatchString(name):
		return Jpn1
	case jpn2Pattern.MatchString(name):
		return Jpn2
	case jpn3Pattern.MatchString(name):
		return Jpn3
	case lPattern.MatchString(name):
		return Listed
	}

	if isHurdle {
		switch {
		case hurdleWin3Pattern.MatchString(name):
			return HurdleWin3
		case hurdleWin2Pattern.MatchString(name):
			return HurdleWin2
		case hurdleWin1Pattern.MatchString(name):
			return HurdleWin1
		case hurdleOpenPattern.MatchString(name):
			return HurdleOpen
		case hurdleMaidenPattern.MatchString(name):
			return HurdleMaiden
		}
	} else {
		if opPattern.MatchString(name) {
			return Open
		}
		for _, cp := range classPatterns {
			if cp.re.MatchString(name) {
				return cp.grade
			}
		}
	}

	if strings.Contains(name, "新馬") {
		return Debut
	}
	if !isHurdle && strings.Contains(name, "未勝利") {
		return Maiden
	}

	return Unknown
}

// IsDebut reports whether the race name classifies as a debut race.
func IsDebut(raceName string) bool {
	return Extract(raceName) == Debut
}
