// Package colgen generates synthetic typed columns with a controllable
// statistical shape: distribution, value range, null probability, and
// cardinality cap.
package colgen

import (
	"fmt"

	"github.com/colbench/colbench/internal/column"
	verrors "github.com/colbench/colbench/internal/errors"
)

// Distribution identifies the value distribution of a profile.
type Distribution int

const (
	// Uniform draws values independently and identically from the
	// closed range [Low, High].
	Uniform Distribution = iota
)

// String returns the distribution name.
func (d Distribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	}
	return fmt.Sprintf("distribution(%d)", int(d))
}

// defaultSeed makes generation reproducible unless a caller chooses
// its own seed. Identical profiles always produce identical columns.
const defaultSeed int64 = 0x5eedc01

// Profile describes the statistical shape of a synthetic column.
type Profile struct {
	// Kind is the element type of the generated column.
	Kind column.Kind

	// Dist is the value distribution.
	Dist Distribution

	// Low and High bound the value range (inclusive).
	Low  float64
	High float64

	// NullProbability is the independent per-row probability of a null
	// entry. Zero disables null generation entirely: the column carries
	// no validity structure at all, not a validity buffer of zero nulls.
	NullProbability float64

	// CardinalityCap bounds the number of distinct values realized by
	// the column. Zero applies no bucketing; the raw distribution range
	// serves as the realized cardinality.
	CardinalityCap int

	// Seed drives the generator's random source.
	Seed int64
}

// Validate rejects malformed profiles before any allocation happens.
func (p Profile) Validate() error {
	if p.Low > p.High {
		return verrors.NewInvalidParameter(
			fmt.Sprintf("profile range is inverted: low %v > high %v", p.Low, p.High))
	}
	if p.NullProbability < 0 || p.NullProbability > 1 {
		return verrors.NewInvalidParameter(
			fmt.Sprintf("null probability %v outside [0,1]", p.NullProbability))
	}
	if p.CardinalityCap < 0 {
		return verrors.NewInvalidParameter(
			fmt.Sprintf("cardinality cap %d is negative", p.CardinalityCap))
	}
	if p.Dist != Uniform {
		return verrors.NewInvalidParameter(
			fmt.Sprintf("unsupported distribution: %v", p.Dist))
	}
	if p.Kind.ByteWidth() == 0 {
		return verrors.NewInvalidParameter(
			fmt.Sprintf("unsupported element kind: %v", p.Kind))
	}
	return nil
}

// ProfileBuilder assembles a Profile fluently.
type ProfileBuilder struct {
	p Profile
}

// NewProfile starts a builder for the given element kind with the
// default seed and no null tracking.
func NewProfile(kind column.Kind) *ProfileBuilder {
	return &ProfileBuilder{p: Profile{
		Kind: kind,
		Dist: Uniform,
		Seed: defaultSeed,
	}}
}

// Distribution sets the distribution and its value range.
func (b *ProfileBuilder) Distribution(d Distribution, low, high float64) *ProfileBuilder {
	b.p.Dist = d
	b.p.Low = low
	b.p.High = high
	return b
}

// NullProbability enables null generation with the given per-row
// probability.
func (b *ProfileBuilder) NullProbability(p float64) *ProfileBuilder {
	b.p.NullProbability = p
	return b
}

// Cardinality caps the number of distinct values (0 = unbounded).
func (b *ProfileBuilder) Cardinality(cap int) *ProfileBuilder {
	b.p.CardinalityCap = cap
	return b
}

// Seed overrides the generator seed.
func (b *ProfileBuilder) Seed(seed int64) *ProfileBuilder {
	b.p.Seed = seed
	return b
}

// Build returns the assembled profile.
func (b *ProfileBuilder) Build() Profile {
	return b.p
}
