package pathorder

import (
	"fmt"
	"strings"

	"github.com/rest-for-physics/tracklib/internal/hits"
)

// DistanceMatrix returns the dense symmetric hit-to-hit distance matrix
// with a zero diagonal.
func DistanceMatrix(hs *hits.HitSet) [][]float64 {
	n := hs.Len()
	flat := make([]float64, n*n)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = flat[i*n : (i+1)*n]
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := hs.Distance(i, j)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

// pathLength sums consecutive edges of order, plus the closing edge when
// cyclic.
func pathLength(dist [][]float64, order []int, cyclic bool) float64 {
	if len(order) < 2 {
		return 0
	}
	var l float64
	for i := 1; i < len(order); i++ {
		l += dist[order[i-1]][order[i]]
	}
	if cyclic {
		l += dist[order[len(order)-1]][order[0]]
	}
	return l
}

// edgeIndex locates the unordered pair (i, j), i != j, in the packed edge
// array: pairs are stored row by row as (1,0), (2,0), (2,1), (3,0), ...
func edgeIndex(i, j int) int {
	if i < j {
		i, j = j, i
	}
	return i*(i-1)/2 + j
}

// scaledEdges packs int(100·d) for every unordered pair. The conversion
// truncates toward zero.
func scaledEdges(dist [][]float64) []int {
	n := len(dist)
	edges := make([]int, n*(n-1)/2)
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			edges[edgeIndex(i, j)] = int(100 * dist[i][j])
		}
	}
	return edges
}

// formatMatrix renders dist one row per line with two decimals.
func formatMatrix(dist [][]float64) string {
	var b strings.Builder
	for _, row := range dist {
		b.WriteString("\n")
		for j, d := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%7.2f", d)
		}
	}
	return b.String()
}
