package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Series accumulates samples for summary statistics
type Series struct {
	N      int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // Kept for correlation against another series
}

// Add incorporates a new sample
func (s *Series) Add(v float64) {
	s.N++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Mean returns the arithmetic mean of all samples
func (s *Series) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the population variance of all samples
func (s *Series) Variance() float64 {
	if s.N == 0 {
		return 0
	}
	mean := s.Mean()
	v := s.SumSq/float64(s.N) - mean*mean
	// Rounding can push a zero variance slightly negative
	return math.Max(0, v)
}

// StdDev returns the population standard deviation of all samples
func (s *Series) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Correlation returns the Pearson correlation between s and other, or 0
// when it is undefined (fewer than two paired samples or a constant series).
func (s *Series) Correlation(other *Series) float64 {
	if s.N < 2 || s.N != other.N {
		return 0
	}
	r := stat.Correlation(s.Values, other.Values, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
