package hits

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hit is a single energy deposition.
type Hit struct {
	Pos    r3.Vec  // Position (mm); axes outside Type are NaN
	Energy float64 // Deposited energy, non-negative
	Sigma  r3.Vec  // Positional uncertainty
	Type   HitType // Projection tag
}

// NewHit builds a hit of the given projection. Coordinates the projection
// does not define are replaced by NaN so they can never leak into distances.
func NewHit(x, y, z, energy float64, t HitType) Hit {
	h := Hit{Pos: r3.Vec{X: x, Y: y, Z: z}, Energy: energy, Type: t}
	h.Pos = maskUndefined(h.Pos, t)
	return h
}

// Coord returns the coordinate along a single axis (X, Y or Z).
func (h Hit) Coord(axis HitType) float64 {
	return coord(h.Pos, axis)
}

func coord(v r3.Vec, axis HitType) float64 {
	switch axis {
	case X:
		return v.X
	case Y:
		return v.Y
	case Z:
		return v.Z
	}
	return math.NaN()
}

func setCoord(v *r3.Vec, axis HitType, value float64) {
	switch axis {
	case X:
		v.X = value
	case Y:
		v.Y = value
	case Z:
		v.Z = value
	}
}

func maskUndefined(v r3.Vec, t HitType) r3.Vec {
	if !t.Has(X) {
		v.X = math.NaN()
	}
	if !t.Has(Y) {
		v.Y = math.NaN()
	}
	if !t.Has(Z) {
		v.Z = math.NaN()
	}
	return v
}

// distance2 is the squared distance over the axes both hits define.
func distance2(a, b Hit) float64 {
	common := a.Type & b.Type
	var d2 float64
	for _, axis := range [3]HitType{X, Y, Z} {
		if !common.Has(axis) {
			continue
		}
		d := coord(a.Pos, axis) - coord(b.Pos, axis)
		d2 += d * d
	}
	return d2
}

// mergeHits returns the energy-weighted combination of a and b over the
// axes they share.
func mergeHits(a, b Hit) Hit {
	total := a.Energy + b.Energy
	wa, wb := 0.5, 0.5
	if total > 0 {
		wa, wb = a.Energy/total, b.Energy/total
	}

	t := a.Type & b.Type
	if t == 0 {
		t = a.Type
	}

	var merged Hit
	merged.Energy = total
	merged.Type = t
	for _, axis := range [3]HitType{X, Y, Z} {
		if !t.Has(axis) {
			setCoord(&merged.Pos, axis, math.NaN())
			continue
		}
		setCoord(&merged.Pos, axis, wa*coord(a.Pos, axis)+wb*coord(b.Pos, axis))
	}
	merged.Sigma = r3.Add(r3.Scale(wa, a.Sigma), r3.Scale(wb, b.Sigma))
	return merged
}
