package lighting

import (
	"math"
	"time"
)

const (
	TrueDawn = Sunrise - TwilightLength
	MoonHi   = Sunset - 30
	MoonBye  = Sunrise

	halfDay = Sunset - Sunrise

	phaseWidthStep    = 0.08
	initialPhaseWidth = phaseWidthStep * 6

	// GameMinutesPerMs is the rate the displayed sky moves toward the real clock.
	GameMinutesPerMs = 0.12
	catchUpGap       = 2 * 60
	forwardSpeedUp   = 6
	rewindSpeedUp    = 36
)

// Point is a position in the sky strip. X runs 0 (left) to 1 (right); Y is
// the height above the horizon in [-1, 1].
type Point struct {
	X, Y float64
}

func orbit(minute, zero float64) Point {
	theta := math.Mod(zero+2-minute/halfDay, 2) * math.Pi
	return Point{X: math.Cos(theta)/2 + 0.5, Y: math.Sin(theta)}
}

// SunPosition places the sun; it is overhead at noon.
func SunPosition(minute float64) Point {
	return orbit(minute, 1.5)
}

// MoonPosition places the moon; it is overhead at midnight.
func MoonPosition(minute float64) Point {
	return orbit(minute, 0.5)
}

func SunVisible(minute float64) bool {
	return minute > TrueDawn && minute < TrueNight
}

func MoonVisible(minute float64) bool {
	return minute < MoonBye || minute > MoonHi
}

// MoonPhaseWidth is the lit fraction of the moon on a given day. It shrinks
// by a fixed step each day.
func MoonPhaseWidth(day int) float64 {
	return initialPhaseWidth - phaseWidthStep*float64(day)
}

// SkyClock is the time the sky shows. It eases toward the real clock rather
// than jumping, and speeds up when far behind or rewinding.
type SkyClock struct {
	Minute float64
	Day    int
}

// Step advances the sky clock by elapsed wall time toward the target minute
// and day and returns the new position.
func (s SkyClock) Step(elapsed time.Duration, minute, day int) SkyClock {
	target := float64(minute)
	sameDay := s.Day == day
	if sameDay && s.Minute == target {
		return s
	}

	delta := float64(elapsed.Milliseconds()) * GameMinutesPerMs
	far := !sameDay || math.Abs(target-s.Minute) >= catchUpGap

	switch {
	case day > s.Day || (sameDay && target > s.Minute):
		if far {
			delta *= forwardSpeedUp
		}
		next := s.Minute + delta
		if next > MinutesPerDay {
			s.Day++
			next -= MinutesPerDay
		}
		if day > s.Day {
			s.Minute = next
		} else {
			s.Minute = math.Min(next, target)
		}

	default:
		if far {
			delta *= rewindSpeedUp
		}
		next := s.Minute - delta
		if next < 0 {
			s.Day--
			next += MinutesPerDay
		}
		if day < s.Day {
			s.Minute = next
		} else {
			s.Minute = math.Max(next, target)
		}
	}

	return s
}
