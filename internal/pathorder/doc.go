// Package pathorder orders the hits of a track into the path of minimum
// total length, a travelling salesman instance over the hit positions.
//
// Three methods share one precomputed distance matrix:
//
//   - BruteForce enumerates every permutation from every start vertex. It is
//     exact and factorial in cost, so Orderer refuses inputs larger than
//     MaxBruteForce.
//   - NearestNeighbour walks greedily from every start vertex and keeps the
//     shortest walk. It is fast and not guaranteed optimal.
//   - Exact hands integer edge lengths (distance×100, truncated) to a
//     TourSolver and is the default. BranchBoundSolver, the default solver,
//     is a depth-first branch and bound with a spanning tree bound and
//     handles the reduced tracks of a few dozen nodes. HeldKarpSolver is a
//     bitmask dynamic program for small tracks.
//
// Tours report their length from the float distance matrix, never from the
// integer weights handed to the solver.
package pathorder
