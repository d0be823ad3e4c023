package render

import "fmt"

// RangePolicy selects how the wireframe pipeline treats vertices whose
// x or y lie outside [-1, 1].
type RangePolicy int

const (
	// RangeReject fails the render with ErrVertexOutOfRange.
	RangeReject RangePolicy = iota
	// RangeClamp clamps x and y to [-1, 1] before mapping.
	RangeClamp
	// RangeClip maps the vertex anyway and drops pixels that land outside
	// the framebuffer.
	RangeClip
)

var rangePolicyNames = [...]string{
	RangeReject: "reject",
	RangeClamp:  "clamp",
	RangeClip:   "clip",
}

func (p RangePolicy) String() string {
	if p < 0 || int(p) >= len(rangePolicyNames) {
		return fmt.Sprintf("RangePolicy(%d)", int(p))
	}
	return rangePolicyNames[p]
}

// ParseRangePolicy parses "reject", "clamp" or "clip".
func ParseRangePolicy(s string) (RangePolicy, error) {
	for i, name := range rangePolicyNames {
		if s == name {
			return RangePolicy(i), nil
		}
	}
	return RangeReject, fmt.Errorf("unknown range policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p RangePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *RangePolicy) UnmarshalText(text []byte) error {
	v, err := ParseRangePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
