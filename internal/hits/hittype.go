package hits

import (
	"fmt"
	"strings"
)

// HitType tags which coordinate axes of a hit are meaningful.
// It is a bit set over X, Y and Z.
type HitType uint8

const (
	X HitType = 1 << iota
	Y
	Z

	XY  = X | Y
	XZ  = X | Z
	YZ  = Y | Z
	XYZ = X | Y | Z
)

// Has reports whether every axis in axes is defined by t.
func (t HitType) Has(axes HitType) bool {
	return t&axes == axes
}

// Is2D reports whether t is one of the pairwise projections.
func (t HitType) Is2D() bool {
	return t == XY || t == XZ || t == YZ
}

func (t HitType) String() string {
	switch t {
	case XY:
		return "XY"
	case XZ:
		return "XZ"
	case YZ:
		return "YZ"
	case XYZ:
		return "XYZ"
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return fmt.Sprintf("HitType(%d)", uint8(t))
}

// ParseHitType accepts the projection names used in event files.
func ParseHitType(s string) (HitType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "XY":
		return XY, nil
	case "XZ":
		return XZ, nil
	case "YZ":
		return YZ, nil
	case "XYZ", "":
		return XYZ, nil
	}
	return 0, fmt.Errorf("unknown hit type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t HitType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *HitType) UnmarshalText(b []byte) error {
	v, err := ParseHitType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
