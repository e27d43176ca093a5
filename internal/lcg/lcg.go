// Package lcg implements the linear congruential recurrence used to produce
// candidate number streams.
//
// A Params value describes one recurrence X_i = (a*X_{i-1} + c) mod m with
// a = 1 + 2k and m = 2^g. A Configuration pairs two Params whose outputs are
// concatenated into a single candidate stream.
package lcg

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MaxExponent bounds g so a full sub-run stays within memory.
const MaxExponent = 32

// ErrInvalidParams is returned when recurrence parameters cannot produce a stream.
var ErrInvalidParams = errors.New("invalid lcg parameters")

// Params holds the recurrence parameters {k, g, X0, c}.
type Params struct {
	K  uint64
	G  uint
	X0 uint64
	C  uint64
}

// Configuration is one entry of the persisted configuration collection.
type Configuration struct {
	Name  string
	Conf1 Params
	Conf2 Params
}

// Multiplier returns a = 1 + 2k.
func (p Params) Multiplier() uint64 {
	return 1 + 2*p.K
}

// Modulus returns m = 2^g.
func (p Params) Modulus() uint64 {
	return uint64(1) << p.G
}

// Validate checks that the parameters describe a usable recurrence.
func (p Params) Validate() error {
	if p.G < 2 || p.G > MaxExponent {
		return fmt.Errorf("%w: g must be in [2, %d], got %d", ErrInvalidParams, MaxExponent, p.G)
	}
	if p.X0 >= p.Modulus() {
		return fmt.Errorf("%w: X0 (%d) must be below m (%d)", ErrInvalidParams, p.X0, p.Modulus())
	}
	return nil
}

// Generate runs the recurrence for m/2 iterations and normalizes each state
// as R_i = X_i / (m-1). The seed X0 itself is not emitted.
func Generate(p Params) ([]float64, error) {
	return generate(context.Background(), p)
}

// cancelCheckInterval is how many iterations run between context checks.
const cancelCheckInterval = 1 << 16

func generate(ctx context.Context, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	a := p.Multiplier()
	m := p.Modulus()
	mask := m - 1
	denom := float64(m - 1)

	// m divides 2^64, so wrapping uint64 arithmetic followed by the mask is
	// exact modular arithmetic.
	numbers := make([]float64, 0, m/2)
	x := p.X0
	for i := uint64(0); i < m/2; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x = (a*x + p.C) & mask
		numbers = append(numbers, float64(x)/denom)
	}
	return numbers, nil
}

// Generate produces the candidate stream for the configuration: the conf1
// sub-run followed by the conf2 sub-run.
func (c Configuration) Generate(ctx context.Context) ([]float64, error) {
	var first, second []float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		nums, err := generate(gctx, c.Conf1)
		if err != nil {
			return fmt.Errorf("conf1: %w", err)
		}
		first = nums
		return nil
	})
	g.Go(func() error {
		nums, err := generate(gctx, c.Conf2)
		if err != nil {
			return fmt.Errorf("conf2: %w", err)
		}
		second = nums
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("configuration %q: %w", c.Name, err)
	}

	out := make([]float64, 0, len(first)+len(second))
	out = append(out, first...)
	return append(out, second...), nil
}

// Size returns the number of values the configuration yields.
func (c Configuration) Size() int {
	return int(c.Conf1.Modulus()/2 + c.Conf2.Modulus()/2)
}
