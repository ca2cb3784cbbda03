package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrRaceNotFound  = errors.New("race not found")
	ErrHorseNotFound = errors.New("horse not found")
	ErrNoPayoutData  = errors.New("no payout data for race")
	ErrInvalidDate   = errors.New("invalid date format, expected YYYY-MM-DD")
)
