// Package uniformity certifies that a candidate number stream looks like an
// independent uniform(0,1) sample.
//
// Validate runs five classical goodness-of-fit tests at significance level
// Alpha and accepts the stream only if every test passes:
//   - mean test
//   - variance test
//   - chi-square test over equal-width bins
//   - Kolmogorov-Smirnov test over the same bins
//   - poker-hand test over 5-digit hands
//
// All functions are pure.
package uniformity

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance level shared by every test.
const Alpha = 0.05

// Test names as they appear in a Report.
const (
	NameMean      = "mean"
	NameVariance  = "variance"
	NameChiSquare = "chi-square"
	NameKS        = "kolmogorov-smirnov"
	NamePoker     = "poker"
)

// TestResult is the outcome of one acceptance test. Lower and Upper bound the
// acceptance region for Statistic; one-sided tests leave Lower at zero.
type TestResult struct {
	Name      string  `json:"name"`
	Statistic float64 `json:"statistic"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Passed    bool    `json:"passed"`
}

// Report collects the five results for a stream of N values.
type Report struct {
	N       int          `json:"n"`
	Results []TestResult `json:"results"`
}

// Passed reports whether every test accepted the stream.
func (r Report) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failed returns the names of the tests that rejected the stream.
func (r Report) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if !res.Passed {
			names = append(names, res.Name)
		}
	}
	return names
}

// String summarizes the report on one line.
func (r Report) String() string {
	if r.Passed() {
		return "all tests passed"
	}
	return "failed: " + strings.Join(r.Failed(), ", ")
}

// Validate runs all five tests against nums.
func Validate(nums []float64) Report {
	return Report{
		N: len(nums),
		Results: []TestResult{
			MeanTest(nums),
			VarianceTest(nums),
			ChiSquareTest(nums),
			KSTest(nums),
			PokerTest(nums),
		},
	}
}

// Accept is Validate(nums).Passed().
func Accept(nums []float64) bool {
	return Validate(nums).Passed()
}

// MeanTest checks that the sample mean lies within 0.5 ± z/sqrt(12n).
func MeanTest(nums []float64) TestResult {
	res := TestResult{Name: NameMean}
	n := len(nums)
	if n < 2 {
		return res
	}

	z := distuv.UnitNormal.Quantile(1 - Alpha/2)
	half := z / math.Sqrt(12*float64(n))

	res.Statistic = stat.Mean(nums, nil)
	res.Lower = 0.5 - half
	res.Upper = 0.5 + half
	res.Passed = res.Lower <= res.Statistic && res.Statistic <= res.Upper
	return res
}

// VarianceTest checks the population variance against the two-sided
// chi-square interval for a uniform(0,1) variance with n-1 degrees of freedom.
func VarianceTest(nums []float64) TestResult {
	res := TestResult{Name: NameVariance}
	n := len(nums)
	if n < 2 {
		return res
	}

	df := float64(n - 1)
	chi := distuv.ChiSquared{K: df}

	_, res.Statistic = stat.PopMeanVariance(nums, nil)
	res.Lower = chi.Quantile(Alpha/2) / (12 * df)
	res.Upper = chi.Quantile(1-Alpha/2) / (12 * df)
	res.Passed = res.Lower <= res.Statistic && res.Statistic <= res.Upper
	return res
}

// ChiSquareTest compares bin frequencies against the uniform expectation n/k.
func ChiSquareTest(nums []float64) TestResult {
	res := TestResult{Name: NameChiSquare}
	n := len(nums)
	if n < 2 {
		return res
	}

	freqs := Histogram(nums)
	k := len(freqs)
	expected := float64(n) / float64(k)

	var chi2 float64
	for _, observed := range freqs {
		d := float64(observed) - expected
		chi2 += d * d / expected
	}

	res.Statistic = chi2
	res.Upper = distuv.ChiSquared{K: float64(k - 1)}.Quantile(1 - Alpha)
	res.Passed = chi2 <= res.Upper
	return res
}

// KSTest compares the binned empirical CDF against the uniform CDF.
func KSTest(nums []float64) TestResult {
	res := TestResult{Name: NameKS}
	n := len(nums)
	if n < 2 {
		return res
	}

	freqs := Histogram(nums)
	k := len(freqs)

	var cumulative int
	var dMax float64
	for i, f := range freqs {
		cumulative += f
		observed := float64(cumulative) / float64(n)
		expected := float64(i+1) / float64(k)
		dMax = math.Max(dMax, math.Abs(observed-expected))
	}

	res.Statistic = dMax
	res.Upper = KSCritical(n)
	res.Passed = dMax <= res.Upper
	return res
}

// BinCount returns k = ceil(1 + 3.322*log10(n)).
func BinCount(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Ceil(1 + 3.322*math.Log10(float64(n))))
}

// Histogram partitions [min, max] of nums into BinCount(len(nums))
// equal-width bins and returns the count in each bin, in bin order.
func Histogram(nums []float64) []int {
	k := BinCount(len(nums))
	freqs := make([]int, k)
	if len(nums) == 0 {
		return freqs
	}

	lo, hi := nums[0], nums[0]
	for _, v := range nums[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	width := (hi - lo) / float64(k)
	for _, v := range nums {
		idx := 0
		if width > 0 {
			idx = int((v - lo) / width)
		}
		if idx >= k {
			idx = k - 1
		}
		freqs[idx]++
	}
	return freqs
}
