package mandel

import (
	"fmt"
	"strings"
)

// Palette selects how escape counts are coloured, on the GPU and the CPU alike.
type Palette uint32

const (
	// PaletteClassic is a polynomial ramp over the normalised escape count.
	PaletteClassic Palette = iota
	// PaletteSmooth colours the smooth escape count and an orbit trap in HSV.
	PaletteSmooth

	paletteCount
)

func (p Palette) String() string {
	switch p {
	case PaletteClassic:
		return "classic"
	case PaletteSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("palette(%d)", uint32(p))
	}
}

// Next returns the palette after p, wrapping around.
func (p Palette) Next() Palette {
	return (p + 1) % paletteCount
}

// ParsePalette is the inverse of Palette.String.
func ParsePalette(s string) (Palette, error) {
	for p := Palette(0); p < paletteCount; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown palette %q", s)
}

// MarshalText lets palettes travel by name in JSON.
func (p Palette) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Palette) UnmarshalText(b []byte) error {
	v, err := ParsePalette(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
