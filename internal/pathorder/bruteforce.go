package pathorder

// nextPermutation rearranges p into the next lexicographic permutation and
// reports false once p is the last one.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

// bruteForce returns the shortest path over every start vertex and every
// ordering of the remaining vertices. Ties keep the first path found.
func bruteForce(dist [][]float64, cyclic bool) []int {
	n := len(dist)
	best := identity(n)
	bestLen := -1.0
	rest := make([]int, 0, n-1)
	for s := 0; s < n; s++ {
		rest = rest[:0]
		for i := 0; i < n; i++ {
			if i != s {
				rest = append(rest, i)
			}
		}
		for {
			l := 0.0
			k := s
			for _, v := range rest {
				l += dist[k][v]
				k = v
			}
			if cyclic {
				l += dist[k][s]
			}
			if bestLen < 0 || l < bestLen {
				bestLen = l
				best[0] = s
				copy(best[1:], rest)
			}
			if !nextPermutation(rest) {
				break
			}
		}
	}
	return best
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
