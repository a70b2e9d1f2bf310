package elo

import "math"

// DefaultRating is the rating assigned to newly created players.
const DefaultRating = 1200

// kFactor controls how much a single match can move a rating.
const kFactor = 32.0

// Result holds the outcome of a rating calculation.
type Result struct {
	NewRatingA int `json:"new_rating_a"`
	NewRatingB int `json:"new_rating_b"`
	ChangeA    int `json:"change_a"`
	ChangeB    int `json:"change_b"`
}

// expectedScore is the probability of the first player winning, per the
// standard Elo formula.
func expectedScore(ratingA, ratingB int) float64 {
	exponent := float64(ratingB-ratingA) / 400.0
	return 1.0 / (1.0 + math.Pow(10, exponent))
}

// Calculate derives new ratings for both players from a match result.
// scoreA and scoreB are the match-level result: sets won for multi-set
// matches, raw points for a single-set match. The higher score wins; equal
// scores count as a loss for both sides rather than a half-point draw.
//
// The two changes are rounded independently (half away from zero), so they
// are not guaranteed to be exact negatives of each other. That asymmetry is
// kept deliberately for compatibility with historical records.
func Calculate(ratingA, ratingB, scoreA, scoreB int) Result {
	var actualA, actualB float64
	if scoreA > scoreB {
		actualA = 1.0
	}
	if scoreB > scoreA {
		actualB = 1.0
	}

	expectedA := expectedScore(ratingA, ratingB)
	expectedB := expectedScore(ratingB, ratingA)

	changeA := int(math.Round(kFactor * (actualA - expectedA)))
	changeB := int(math.Round(kFactor * (actualB - expectedB)))

	return Result{
		NewRatingA: ratingA + changeA,
		NewRatingB: ratingB + changeB,
		ChangeA:    changeA,
		ChangeB:    changeB,
	}
}
