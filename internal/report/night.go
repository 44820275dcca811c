package report

import (
	"math"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// Sunset and sunrise swing on a cosine between the winter and summer
// solstices. The constants are UTC times for southern England.
const (
	sunsetDec21  = 15*time.Hour + 53*time.Minute
	sunsetJun21  = 21*time.Hour + 21*time.Minute
	sunriseDec21 = 8*time.Hour + 4*time.Minute
	sunriseJun21 = 4*time.Hour + 43*time.Minute

	sunsetSwing  = (sunsetDec21 - sunsetJun21) / 2
	sunsetMean   = sunsetJun21 + sunsetSwing
	sunriseSwing = (sunriseDec21 - sunriseJun21) / 2
	sunriseMean  = sunriseJun21 + sunriseSwing
)

// ApproxNight returns approximate sunset and sunrise on the date of d as
// offsets from midnight UTC.
func ApproxNight(d time.Time) (sunset, sunrise time.Duration) {
	// Days since the previous winter solstice.
	days := float64(d.UTC().YearDay() + 10)
	f := math.Cos(days * 2 * math.Pi / 365)
	f = math.Trunc(f*10000) / 10000
	sunset = sunsetMean + time.Duration(float64(sunsetSwing)*f)
	sunrise = sunriseMean + time.Duration(float64(sunriseSwing)*f)
	return sunset, sunrise
}

// IsNight reports whether t falls between the approximate sunset and
// sunrise of its day.
func IsNight(t time.Time) bool {
	return nightAt(t, t)
}

// NightFlag reports whether the middle of a sector is at night, judged
// against the sunset and sunrise of the day it lands.
func NightFlag(s model.Sector) bool {
	return nightAt(s.Off.Add(s.Duration()/2), s.On)
}

// nightAt compares the time of day of t with the sunset and sunrise of the
// date of day.
func nightAt(t, day time.Time) bool {
	t = t.UTC()
	sunset, sunrise := ApproxNight(day)
	tod := t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return tod > sunset || tod < sunrise
}

// NightDuration returns how much of a sector was flown at night, to the
// minute.
func NightDuration(s model.Sector) time.Duration {
	var night time.Duration
	for t := s.Off.Truncate(time.Minute); t.Before(s.On); t = t.Add(time.Minute) {
		if IsNight(t) {
			night += time.Minute
		}
	}
	return night
}
