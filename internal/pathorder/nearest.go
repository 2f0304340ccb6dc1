package pathorder

// nearestNeighbour runs a greedy walk from every start vertex, always
// stepping to the closest unvisited vertex (lowest index on ties), and keeps
// the shortest walk.
func nearestNeighbour(dist [][]float64, cyclic bool) []int {
	n := len(dist)
	best := identity(n)
	bestLen := -1.0
	walk := make([]int, n)
	visited := make([]bool, n)
	for s := 0; s < n; s++ {
		for i := range visited {
			visited[i] = false
		}
		walk[0] = s
		visited[s] = true
		l := 0.0
		k := s
		for step := 1; step < n; step++ {
			next := -1
			for v := 0; v < n; v++ {
				if visited[v] {
					continue
				}
				if next < 0 || dist[k][v] < dist[k][next] {
					next = v
				}
			}
			l += dist[k][next]
			visited[next] = true
			walk[step] = next
			k = next
		}
		if cyclic {
			l += dist[k][s]
		}
		if bestLen < 0 || l < bestLen {
			bestLen = l
			copy(best, walk)
		}
	}
	return best
}
