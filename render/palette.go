package render

import (
	"image/color"
	"math"

	mandel "github.com/marben/mandelzoom"
)

var inside = color.RGBA{A: 255}

// Color colours one escape result the way the fragment shader does.
func Color(p mandel.Palette, n, maxIter int, z complex128, trap float64) color.RGBA {
	if n >= maxIter {
		return inside
	}
	switch p {
	case mandel.PaletteSmooth:
		return smooth(n, z, trap)
	default:
		return classic(n, maxIter)
	}
}

// classic is a Bernstein polynomial ramp: dark blue through orange to
// near white as the escape count approaches the cap.
func classic(n, maxIter int) color.RGBA {
	t := float64(n) / float64(maxIter)
	s := 1 - t
	return rgb(9*s*t*t*t, 15*s*s*t*t, 8.5*s*s*s*t)
}

func smooth(n int, z complex128, trap float64) color.RGBA {
	mu := Smooth(n, z)
	tnorm := math.Exp(-5 * trap)
	hue := math.Mod(mu*0.02+tnorm*0.3, 1.0)
	if hue < 0 {
		hue++
	}
	return hsv(hue, 1, 1)
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return rgb(r, g, b)
}

// rgb quantises like a unorm8 framebuffer: clamp, scale, round.
func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{R: unorm8(r), G: unorm8(g), B: unorm8(b), A: 255}
}

func unorm8(x float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(x, 0), 1) * 255))
}
