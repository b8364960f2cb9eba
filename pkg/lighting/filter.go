package lighting

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Filter is the ambient lighting transform for one moment of the day.
type Filter struct {
	ShadeBy        float64
	RGBTemperature [3]uint8
	MixRatio       float64
}

// Neutral leaves colors untouched apart from a white mix.
var Neutral = Filter{RGBTemperature: [3]uint8{255, 255, 255}, MixRatio: MixRatio}

// ColorFilterForTime derives the filter for a clock minute.
func ColorFilterForTime(minute float64) Filter {
	return Filter{
		ShadeBy:        LuxToShadeBy(LuxAt(minute)),
		RGBTemperature: KelvinToRGB(KelvinAt(minute)),
		MixRatio:       MixRatio,
	}
}

// KelvinToRGB approximates the color of a black body at kelvin using Tanner
// Helland's curve fit. Red saturates at or below 6600K, blue is zero at or
// below 1900K and saturates at or above 6600K.
func KelvinToRGB(kelvin float64) [3]uint8 {
	t := kelvin / 100

	var r, g, b float64
	if kelvin <= 6600 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case kelvin >= 6600:
		b = 255
	case kelvin <= 1900:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return [3]uint8{channel(r), channel(g), channel(b)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(clamp(v, 0, 255)))
}

// LuxToShadeBy maps illuminance to a darkening amount in [0, MaxShading]
// on a log2 scale between moonlight and daylight.
func LuxToShadeBy(lux float64) float64 {
	logMax := math.Log2(DaylightLux)
	logMin := math.Log2(MoonlightLux)
	logLux := math.Log2(math.Max(lux, MoonlightLux))

	brightness := clamp((logLux-logMin)/(logMax-logMin), 0, 1)
	return MaxShading - brightness*MaxShading
}

// Apply mixes base with the light temperature, restores base's lightness,
// darkens by ShadeBy and keeps base's alpha. base may be #rgb, #rgba,
// #rrggbb or #rrggbbaa.
func (f Filter) Apply(base string) (string, error) {
	c, alpha, err := ParseHex(base)
	if err != nil {
		return "", err
	}

	light := colorful.Color{
		R: float64(f.RGBTemperature[0]) / 255,
		G: float64(f.RGBTemperature[1]) / 255,
		B: float64(f.RGBTemperature[2]) / 255,
	}

	h, s, l := c.Hsl()
	mixed := c.BlendRgb(light, f.MixRatio)
	mh, ms, _ := mixed.Hsl()
	if s == 0 && ms == 0 {
		mh = h
	}
	out := colorful.Hsl(mh, ms, l*(1-f.ShadeBy)).Clamped()

	return FormatHex(out, alpha), nil
}

// MustApply is Apply for colors known to be well formed, such as the palette.
func (f Filter) MustApply(base string) string {
	out, err := f.Apply(base)
	if err != nil {
		panic(err)
	}
	return out
}

// LandscapeTint is the overlay drawn over place art: the light temperature
// darkened by the shade, at most half opaque.
func LandscapeTint(f Filter) (string, float64) {
	light := colorful.Color{
		R: float64(f.RGBTemperature[0]) / 255,
		G: float64(f.RGBTemperature[1]) / 255,
		B: float64(f.RGBTemperature[2]) / 255,
	}
	h, s, l := light.Hsl()
	tint := colorful.Hsl(h, s, l*(1-f.ShadeBy)).Clamped()
	return tint.Hex(), math.Min(f.ShadeBy+f.MixRatio, 0.5)
}
