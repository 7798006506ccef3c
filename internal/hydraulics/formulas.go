// Package hydraulics holds the pressure-loss and velocity formulas applied to
// each pipe segment. Every function rounds its result to display precision
// before returning; callers chain the rounded values.
package hydraulics

import (
	"math"
	"math/big"
)

const (
	// FittingFactor converts a measured length into an equivalent length.
	FittingFactor = 1.2
	// MaxVelocity is the highest approved gas velocity in m/s.
	MaxVelocity = 10.0
	// MaxLossRatio is the largest approved loss as a fraction of the inlet pressure.
	MaxLossRatio = 0.1

	renouardCoefficient = 23200 * 0.67
	flowExponent        = 1.82
	diameterExponent    = -4.82
	velocityCoefficient = 345
	atmosphereOffset    = 0.7236
)

// Status is the pass/fail verdict for a segment.
type Status string

const (
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// EquivalentLength returns length * 1.2, rounded to 2 decimals.
func EquivalentLength(length float64) float64 {
	return Round(length*FittingFactor, 2)
}

// PressureLoss returns the pressure drop in mbar, rounded to 4 decimals.
func PressureLoss(flow, equivalentLength, diameter float64) float64 {
	dp := renouardCoefficient * flow * math.Pow(equivalentLength, flowExponent) * math.Pow(diameter, diameterExponent)
	return Round(dp, 4)
}

// OutletPressure subtracts an already rounded loss from the inlet pressure.
func OutletPressure(inletPressure, pressureLoss float64) float64 {
	return Round(inletPressure-pressureLoss, 2)
}

// Velocity returns the gas velocity in m/s at the given inlet pressure, rounded to 2 decimals.
func Velocity(flow, diameter, inletPressure float64) float64 {
	v := velocityCoefficient * flow * math.Pow(inletPressure/1000+atmosphereOffset, -1) * math.Pow(diameter, -2)
	return Round(v, 2)
}

// CheckStatus approves a segment when both the velocity and the loss limits hold.
func CheckStatus(velocity, pressureLoss, inletPressure float64) Status {
	if velocity <= MaxVelocity && pressureLoss <= MaxLossRatio*inletPressure {
		return Approved
	}
	return Rejected
}

// Round rounds half away from zero to the given number of decimals. Ties
// are decided on the exact binary value of v, so 0.015 (stored just below
// 0.015) rounds to 0.01 while 0.125 rounds to 0.13.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if decimals < 0 {
		decimals = 0
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	x := new(big.Rat).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Rat).SetInt(scale))
	x.Add(x, big.NewRat(1, 2))
	n := new(big.Int).Quo(x.Num(), x.Denom())
	r, _ := new(big.Rat).SetFrac(n, scale).Float64()
	if v < 0 {
		return -r
	}
	return r
}
