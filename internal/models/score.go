package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Score is an optional factor or aggregate score. An absent score is
// represented explicitly rather than as zero or NaN so downstream
// consumers can distinguish "no data" from a genuine zero.
type Score struct {
	value float64
	valid bool
}

// NewScore creates a present score.
func NewScore(v float64) Score {
	return Score{value: v, valid: true}
}

// NoScore creates an absent score.
func NoScore() Score {
	return Score{}
}

// Valid reports whether the score is present.
func (s Score) Valid() bool {
	return s.valid
}

// Value returns the score value and whether it is present.
func (s Score) Value() (float64, bool) {
	return s.value, s.valid
}

// ValueOr returns the score value, or fallback when absent.
func (s Score) ValueOr(fallback float64) float64 {
	if !s.valid {
		return fallback
	}
	return s.value
}

// Rounded returns the score rounded to one decimal place. Absent
// scores round to themselves.
func (s Score) Rounded() Score {
	if !s.valid {
		return s
	}
	return NewScore(math.Round(s.value*10) / 10)
}

// String renders the value or "none".
func (s Score) String() string {
	if !s.valid {
		return "none"
	}
	return fmt.Sprintf("%.1f", s.value)
}

// MarshalJSON encodes a present score as a number and an absent score
// as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as an absent score.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoScore()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = NewScore(v)
	return nil
}
