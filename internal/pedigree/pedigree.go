// Package pedigree holds the static sire-line master data and the
// per-line aptitude tables used by the pedigree factor.
package pedigree

import "github.com/yourusername/keiba-engine/internal/models"

// TrackType collapses the official going into the two aptitude
// domains the master data distinguishes.
type TrackType string

const (
	TrackTypeGood  TrackType = "good"
	TrackTypeHeavy TrackType = "heavy"
)

// TrackTypeOf maps a track condition to its aptitude domain. Soft and
// heavy goings count as heavy; everything else, including unknown,
// counts as good.
func TrackTypeOf(cond models.TrackCondition) TrackType {
	switch cond {
	case models.TrackSoft, models.TrackHeavy:
		return TrackTypeHeavy
	default:
		return TrackTypeGood
	}
}

// Aptitude holds a line's per-distance-band and per-track aptitudes,
// each in [0, 1].
type Aptitude struct {
	Distance map[models.DistanceBand]float64
	Track    map[TrackType]float64
}

// OtherLine is the fallback lineage for unknown sires.
const OtherLine = "other"

var sireLines = map[string]string{
	// Sunday Silence line
	"サンデーサイレンス": "sunday_silence",
	"ディープインパクト": "sunday_silence",
	"ステイゴールド":   "sunday_silence",
	"ハーツクライ":    "sunday_silence",
	"ダイワメジャー":   "sunday_silence",
	"マンハッタンカフェ": "sunday_silence",
	"ゼンノロブロイ":   "sunday_silence",
	"アグネスタキオン":  "sunday_silence",
	"スペシャルウィーク": "sunday_silence",
	"フジキセキ":     "sunday_silence",
	"ネオユニヴァース":  "sunday_silence",
	"キズナ":       "sunday_silence",
	"オルフェーヴル":   "sunday_silence",
	"ゴールドシップ":   "sunday_silence",
	"ドゥラメンテ":    "sunday_silence",
	"エピファネイア":   "sunday_silence",
	"コントレイル":    "sunday_silence",
	// Kingmambo line
	"キングマンボ":   "kingmambo",
	"キングカメハメハ": "kingmambo",
	"ロードカナロア":  "kingmambo",
	"ルーラーシップ":  "kingmambo",
	"レイデオロ":    "kingmambo",
	"ドゥラモンド":   "kingmambo",
	// Northern Dancer line
	"ノーザンダンサー":  "northern_dancer",
	"サドラーズウェルズ": "northern_dancer",
	"ガリレオ":      "northern_dancer",
	"フランケル":     "northern_dancer",
	"ニジンスキー":    "northern_dancer",
	"リファール":     "northern_dancer",
	// Mr. Prospector line (excluding Kingmambo)
	"ミスタープロスペクター": "mr_prospector",
	"フォーティナイナー":   "mr_prospector",
	"エンドスウィープ":    "mr_prospector",
	"アドマイヤムーン":    "mr_prospector",
	"ゴールドアリュール":   "mr_prospector",
	"スマートファルコン":   "mr_prospector",
	// Roberto line
	"ロベルト":       "roberto",
	"ブライアンズタイム":  "roberto",
	"タニノギムレット":   "roberto",
	"ウオッカ":       "roberto",
	"シンボリクリスエス":  "roberto",
	"エピカリス":      "roberto",
	"モーリス":       "roberto",
	"スクリーンヒーロー":  "roberto",
	// Storm Cat line
	"ストームキャット":     "storm_cat",
	"ヘネシー":         "storm_cat",
	"テイルオブザキャット":   "storm_cat",
	"ジャイアンツコーズウェイ": "storm_cat",
	"ヨハネスブルグ":      "storm_cat",
	// Hail to Reason line (excluding Sunday Silence)
	"ヘイルトゥリーズン": "hail_to_reason",
	"リアルシャダイ":   "hail_to_reason",
	"トニービン":     "hail_to_reason",
	"ジャングルポケット": "hail_to_reason",
}

var lineAptitudes = map[string]Aptitude{
	"sunday_silence": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.6, models.BandMile: 0.9, models.BandMiddle: 1.0, models.BandLong: 0.8},
		Track:    map[TrackType]float64{TrackTypeGood: 1.0, TrackTypeHeavy: 0.7},
	},
	"kingmambo": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.8, models.BandMile: 1.0, models.BandMiddle: 0.9, models.BandLong: 0.6},
		Track:    map[TrackType]float64{TrackTypeGood: 0.9, TrackTypeHeavy: 0.9},
	},
	"northern_dancer": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.5, models.BandMile: 0.8, models.BandMiddle: 1.0, models.BandLong: 0.9},
		Track:    map[TrackType]float64{TrackTypeGood: 0.9, TrackTypeHeavy: 1.0},
	},
	"mr_prospector": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 1.0, models.BandMile: 0.9, models.BandMiddle: 0.7, models.BandLong: 0.5},
		Track:    map[TrackType]float64{TrackTypeGood: 0.9, TrackTypeHeavy: 1.0},
	},
	"roberto": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.6, models.BandMile: 0.9, models.BandMiddle: 1.0, models.BandLong: 0.8},
		Track:    map[TrackType]float64{TrackTypeGood: 0.8, TrackTypeHeavy: 1.0},
	},
	"storm_cat": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 1.0, models.BandMile: 0.9, models.BandMiddle: 0.6, models.BandLong: 0.4},
		Track:    map[TrackType]float64{TrackTypeGood: 1.0, TrackTypeHeavy: 0.6},
	},
	"hail_to_reason": {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.5, models.BandMile: 0.7, models.BandMiddle: 0.9, models.BandLong: 1.0},
		Track:    map[TrackType]float64{TrackTypeGood: 0.9, TrackTypeHeavy: 0.8},
	},
	OtherLine: {
		Distance: map[models.DistanceBand]float64{models.BandSprint: 0.7, models.BandMile: 0.8, models.BandMiddle: 0.8, models.BandLong: 0.7},
		Track:    map[TrackType]float64{TrackTypeGood: 0.9, TrackTypeHeavy: 0.9},
	},
}

// SireLine resolves a sire name to its lineage tag. The lookup is
// total: unknown names map to "other".
func SireLine(sireName string) string {
	if line, ok := sireLines[sireName]; ok {
		return line
	}
	return OtherLine
}

// LineAptitude returns the aptitude table for a lineage tag, falling
// back to the "other" table for unknown lines.
func LineAptitude(line string) Aptitude {
	if apt, ok := lineAptitudes[line]; ok {
		return apt
	}
	return lineAptitudes[OtherLine]
}
