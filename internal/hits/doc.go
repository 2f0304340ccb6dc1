// Package hits owns the hit container consumed by the track reconstruction
// packages.
//
// A Hit is one energy deposition with a projection tag (XY, XZ, YZ or XYZ).
// Coordinates outside the projection are NaN. A HitSet is an ordered
// sequence of hits; order carries meaning only after path ordering.
//
// Key types: HitType, Hit, HitSet.
// Key operations: Distance, MergeHits, MeanPosition, KMeans.
package hits
