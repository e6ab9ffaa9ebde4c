package services

import "math"

// Round2 rounds half-up to 2 decimals. Report values are never negative, so
// the floor form is safe.
func Round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}

// Round1 rounds half-up to 1 decimal.
func Round1(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}
