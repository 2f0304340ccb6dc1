package pathorder

import (
	"fmt"
	"strings"
)

// Method selects the ordering algorithm.
type Method int

const (
	// Exact delegates to a TourSolver on integer edge lengths.
	Exact Method = iota
	// BruteForce enumerates every path.
	BruteForce
	// NearestNeighbour keeps the best greedy walk over all start vertices.
	NearestNeighbour
)

func (m Method) String() string {
	switch m {
	case Exact:
		return "exact"
	case BruteForce:
		return "bruteforce"
	case NearestNeighbour:
		return "closestN"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a configuration name onto a Method. The empty string and
// "default" select Exact.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "exact", "heldkarp", "held-karp", "dp":
		return Exact, nil
	case "bruteforce", "brute-force", "brute":
		return BruteForce, nil
	case "closestn", "nearest", "nearestneighbour", "nearestneighbor":
		return NearestNeighbour, nil
	}
	return Exact, fmt.Errorf("pathorder: unknown method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
