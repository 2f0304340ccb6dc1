// Package alpha reconstructs short straight tracks, such as alpha particles,
// from their XZ and YZ projections.
//
// Smooth collapses hits that share a depth into one energy-weighted point
// and drops depths sampled by a single hit. Analyze uses it to derive the
// origin, end, length and polar angle of the dominant track.
package alpha

import "sort"

// Point is a projected hit: the transverse coordinate (X or Y), the depth
// (Z) and the deposited energy.
type Point struct {
	Coord  float64
	Depth  float64
	Energy float64
}

// Smooth returns one point per depth shared by more than one input point,
// placed at the energy-weighted mean coordinate with the summed energy.
// Depths with a single point, or with no energy, produce nothing. The
// result is ordered by increasing depth and the input is left untouched.
func Smooth(points []Point) []Point {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Depth < sorted[j].Depth })

	var out []Point
	for i := 0; i < len(sorted); {
		depth := sorted[i].Depth
		var weighted, energy float64
		n := 0
		for ; i < len(sorted) && sorted[i].Depth == depth; i++ {
			weighted += sorted[i].Coord * sorted[i].Energy
			energy += sorted[i].Energy
			n++
		}
		if n > 1 && energy > 0 {
			out = append(out, Point{Coord: weighted / energy, Depth: depth, Energy: energy})
		}
	}
	return out
}
