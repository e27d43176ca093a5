package uniformity

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// PokerHand is the digit-multiplicity pattern of a 5-digit hand.
type PokerHand int

const (
	AllDifferent PokerHand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	FullHouse
	FourOfAKind
	FiveOfAKind
	Unclassified
)

// pokerHands lists the classified hands in table order.
var pokerHands = []PokerHand{AllDifferent, OnePair, TwoPair, ThreeOfAKind, FullHouse, FourOfAKind, FiveOfAKind}

// Probability returns the theoretical frequency of the hand for uniform digits.
func (h PokerHand) Probability() float64 {
	switch h {
	case AllDifferent:
		return 0.3024
	case OnePair:
		return 0.5040
	case TwoPair:
		return 0.1080
	case ThreeOfAKind:
		return 0.0720
	case FullHouse:
		return 0.0090
	case FourOfAKind:
		return 0.0045
	case FiveOfAKind:
		return 0.0001
	default:
		return 0
	}
}

func (h PokerHand) String() string {
	switch h {
	case AllDifferent:
		return "all-different"
	case OnePair:
		return "one-pair"
	case TwoPair:
		return "two-pair"
	case ThreeOfAKind:
		return "three-of-a-kind"
	case FullHouse:
		return "full"
	case FourOfAKind:
		return "four-of-a-kind"
	case FiveOfAKind:
		return "five-of-a-kind"
	default:
		return "unclassified"
	}
}

// pokerEpsilon absorbs binary representation error, so 0.12345 reads as 12345.
const pokerEpsilon = 1e-7

// PokerDigits renders v as the zero-padded digit string of int(v*100000).
// Values >= 1 produce six digits.
func PokerDigits(v float64) string {
	return fmt.Sprintf("%05d", int(v*100000+pokerEpsilon))
}

// ClassifyPokerHand returns the hand formed by the five digits of v.
func ClassifyPokerHand(v float64) PokerHand {
	digits := PokerDigits(v)
	if len(digits) != 5 {
		return Unclassified
	}

	var counts [10]int
	for _, d := range digits {
		counts[d-'0']++
	}

	distinct, largest := 0, 0
	for _, c := range counts {
		if c > 0 {
			distinct++
		}
		largest = max(largest, c)
	}

	switch distinct {
	case 5:
		return AllDifferent
	case 4:
		return OnePair
	case 3:
		if largest == 2 {
			return TwoPair
		}
		return ThreeOfAKind
	case 2:
		if largest == 3 {
			return FullHouse
		}
		return FourOfAKind
	default:
		return FiveOfAKind
	}
}

// PokerCounts tallies the hand of every value. Unclassified values are
// counted under Unclassified and excluded from the test.
func PokerCounts(nums []float64) map[PokerHand]int {
	counts := make(map[PokerHand]int, len(pokerHands)+1)
	for _, v := range nums {
		counts[ClassifyPokerHand(v)]++
	}
	return counts
}

// PokerTest runs a chi-square goodness-of-fit over the seven hand
// frequencies with six degrees of freedom.
func PokerTest(nums []float64) TestResult {
	res := TestResult{Name: NamePoker}
	n := len(nums)
	if n < 2 {
		return res
	}

	counts := PokerCounts(nums)
	var chi2 float64
	for _, h := range pokerHands {
		expected := h.Probability() * float64(n)
		d := float64(counts[h]) - expected
		chi2 += d * d / expected
	}

	res.Statistic = chi2
	res.Upper = distuv.ChiSquared{K: float64(len(pokerHands) - 1)}.Quantile(1 - Alpha)
	res.Passed = chi2 <= res.Upper
	return res
}
