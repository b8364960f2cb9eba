// Package lighting derives the ambient day/night color filter from the
// in-game clock and applies it to UI colors.
package lighting

import "math"

// Minutes since midnight.
const (
	Sunrise          = 6 * 60
	Sunset           = 18 * 60
	GoldenHourLength = 2 * 60
	TwilightLength   = 90
	TrueNight        = Sunset + TwilightLength
	MinutesPerDay    = 24 * 60

	EndMorningGoldenHour   = Sunrise + GoldenHourLength
	StartEveningGoldenHour = Sunset - GoldenHourLength
)

const (
	HorizonKelvin   = 1900.0
	DaylightKelvin  = 6500.0
	MoonlightKelvin = 4100.0

	// HorizonLux is the illuminance at sunrise and sunset. The sun is on the
	// horizon at those moments but the scene still reads as daylight; the
	// real dimming happens through twilight.
	HorizonLux   = 16000.0
	DaylightLux  = 20000.0
	MoonlightLux = 10.0

	MaxShading = 0.75
	MixRatio   = 0.1
)

// DaySegment is one of the five lighting phases of a day.
type DaySegment int

const (
	Morning DaySegment = iota
	Midday
	Evening
	Twilight
	Night
)

func (s DaySegment) String() string {
	switch s {
	case Morning:
		return "morning"
	case Midday:
		return "midday"
	case Evening:
		return "evening"
	case Twilight:
		return "twilight"
	default:
		return "night"
	}
}

// SegmentFor returns the segment containing minute. Minutes outside 0-1439
// wrap around the day.
func SegmentFor(minute float64) DaySegment {
	t := wrap(minute)
	switch {
	case t < Sunrise:
		return Night
	case t <= EndMorningGoldenHour:
		return Morning
	case t < StartEveningGoldenHour:
		return Midday
	case t <= Sunset:
		return Evening
	case t < TrueNight:
		return Twilight
	default:
		return Night
	}
}

// KelvinAt is the color temperature of the ambient light at minute.
func KelvinAt(minute float64) float64 {
	t := wrap(minute)
	switch SegmentFor(t) {
	case Morning:
		return pointInRange(DaylightKelvin, HorizonKelvin, (t-Sunrise)/GoldenHourLength)
	case Midday:
		return DaylightKelvin
	case Evening:
		return pointInRange(DaylightKelvin, HorizonKelvin, (Sunset-t)/GoldenHourLength)
	case Twilight:
		return pointInRange(MoonlightKelvin, HorizonKelvin, (t-Sunset)/TwilightLength)
	default:
		return MoonlightKelvin
	}
}

// LuxAt is the ambient illuminance at minute.
func LuxAt(minute float64) float64 {
	t := wrap(minute)
	switch SegmentFor(t) {
	case Morning:
		return pointInRange(DaylightLux, HorizonLux, (t-Sunrise)/GoldenHourLength)
	case Midday:
		return DaylightLux
	case Evening:
		return pointInRange(DaylightLux, HorizonLux, (Sunset-t)/GoldenHourLength)
	case Twilight:
		return pointInRange(MoonlightLux, HorizonLux, (t-Sunset)/TwilightLength)
	default:
		return MoonlightLux
	}
}

// pointInRange interpolates from low (fraction 0) to high (fraction 1).
func pointInRange(high, low, fraction float64) float64 {
	return (high-low)*clamp(fraction, 0, 1) + low
}

func wrap(minute float64) float64 {
	t := math.Mod(minute, MinutesPerDay)
	if t < 0 {
		t += MinutesPerDay
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
