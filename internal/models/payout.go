package models

import "github.com/shopspring/decimal"

// Payout amounts are the official yen payout per 100-yen unit.

// ShowPayout is the payout for one of the three placing horses.
type ShowPayout struct {
	HorseNumber int             `db:"horse_number" json:"horse_number"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

// WinPayout is the payout for the single winning horse.
type WinPayout struct {
	HorseNumber int             `db:"horse_number" json:"horse_number"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

// QuinellaPayout is the payout for the unordered top-2 pair.
// Numbers are stored low-high.
type QuinellaPayout struct {
	Numbers [2]int          `json:"numbers"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewQuinellaPayout normalizes the pair to low-high order.
func NewQuinellaPayout(a, b int, amount decimal.Decimal) QuinellaPayout {
	if a > b {
		a, b = b, a
	}
	return QuinellaPayout{Numbers: [2]int{a, b}, Amount: amount}
}

// Matches reports whether the unordered pair {a, b} is the winning
// combination.
func (q QuinellaPayout) Matches(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return q.Numbers[0] == a && q.Numbers[1] == b
}

// TrioPayout is the payout for the unordered top-3 triple.
// Numbers are stored in ascending order.
type TrioPayout struct {
	Numbers [3]int          `json:"numbers"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewTrioPayout normalizes the triple to ascending order.
func NewTrioPayout(a, b, c int, amount decimal.Decimal) TrioPayout {
	nums := [3]int{a, b, c}
	sortTriple(&nums)
	return TrioPayout{Numbers: nums, Amount: amount}
}

// Matches reports whether the unordered triple {a, b, c} is the
// winning combination.
func (t TrioPayout) Matches(a, b, c int) bool {
	nums := [3]int{a, b, c}
	sortTriple(&nums)
	return t.Numbers == nums
}

func sortTriple(n *[3]int) {
	if n[0] > n[1] {
		n[0], n[1] = n[1], n[0]
	}
	if n[1] > n[2] {
		n[1], n[2] = n[2], n[1]
	}
	if n[0] > n[1] {
		n[0], n[1] = n[1], n[0]
	}
}
