package common

import "math"

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Euclidean returns the straight-line distance between two grid cells
func Euclidean(r1, c1, r2, c2 int) float64 {
	dr := float64(r1 - r2)
	dc := float64(c1 - c2)
	return math.Sqrt(dr*dr + dc*dc)
}
