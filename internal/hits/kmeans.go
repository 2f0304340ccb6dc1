package hits

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// kMeansTolerance is the per-axis displacement below which a node is
// considered not to have moved between sweeps.
const kMeansTolerance = 1e-9

// KMeans snaps nodes onto the hit population of original.
//
// Each sweep assigns every original hit to its nearest node (lowest index on
// ties) and moves each node to the energy-weighted centroid of its assignees,
// with the summed assignee energy. Nodes that receive no hits are dropped.
// Sweeps stop after maxIt iterations or once no node moves.
//
// The returned set is new; neither input is modified. Because every original
// hit lands in exactly one node, the result's total energy equals
// original.TotalEnergy().
func KMeans(original, nodes *HitSet, maxIt int) *HitSet {
	current := nodes.Clone()
	if original.Len() == 0 || current.Len() == 0 {
		return current
	}
	if maxIt < 1 {
		maxIt = 1
	}

	for it := 0; it < maxIt; it++ {
		groups := make([][]Hit, current.Len())
		for _, h := range original.hits {
			best := 0
			bestD := math.Inf(1)
			for n, node := range current.hits {
				if d := distance2(h, node); d < bestD {
					bestD = d
					best = n
				}
			}
			groups[best] = append(groups[best], h)
		}

		next := &HitSet{hits: make([]Hit, 0, len(groups))}
		moved := false
		for n, g := range groups {
			if len(g) == 0 {
				moved = true
				continue
			}
			node := current.hits[n]
			updated := Hit{
				Pos:    weightedCentroid(g),
				Energy: sumEnergy(g),
				Type:   node.Type,
			}
			updated.Pos = maskUndefined(updated.Pos, node.Type)
			updated.Sigma = spread(g, updated.Pos)
			if !samePosition(node.Pos, updated.Pos) {
				moved = true
			}
			next.hits = append(next.hits, updated)
		}
		current = next
		if !moved {
			break
		}
	}
	return current
}

func sumEnergy(hs []Hit) float64 {
	var e float64
	for _, h := range hs {
		e += h.Energy
	}
	return e
}

// spread is the energy-weighted RMS distance of hs around c, per axis.
func spread(hs []Hit, c r3.Vec) r3.Vec {
	total := sumEnergy(hs)
	var out r3.Vec
	for _, axis := range [3]HitType{X, Y, Z} {
		center := coord(c, axis)
		if math.IsNaN(center) {
			setCoord(&out, axis, 0)
			continue
		}
		var acc, wsum float64
		for _, h := range hs {
			if !h.Type.Has(axis) {
				continue
			}
			w := h.Energy
			if total <= 0 {
				w = 1
			}
			d := coord(h.Pos, axis) - center
			acc += w * d * d
			wsum += w
		}
		if wsum > 0 {
			setCoord(&out, axis, math.Sqrt(acc/wsum))
		}
	}
	return out
}

func samePosition(a, b r3.Vec) bool {
	for _, axis := range [3]HitType{X, Y, Z} {
		va, vb := coord(a, axis), coord(b, axis)
		if math.IsNaN(va) && math.IsNaN(vb) {
			continue
		}
		if math.IsNaN(va) != math.IsNaN(vb) || math.Abs(va-vb) > kMeansTolerance {
			return false
		}
	}
	return true
}
