/*
Copyright © 2026 the canopy authors.
This file is part of canopy.

canopy is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

canopy is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with canopy.  If not, see <http://www.gnu.org/licenses/>.
*/

package radiation

import (
	"fmt"
	"math"
	"time"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// ErrPolarDay indicates that the sun never sets on the requested date.
var ErrPolarDay = fmt.Errorf("radiation: sun never sets at this latitude and date")

// ErrPolarNight indicates that the sun never rises on the requested date.
var ErrPolarNight = fmt.Errorf("radiation: sun never rises at this latitude and date")

// SolarPosition holds the apparent position of the sun.
type SolarPosition struct {
	Declination float64 `desc:"Solar declination" units:"rad"`
	HourAngle   float64 `desc:"Solar hour angle" units:"rad"`
	Zenith      float64 `desc:"Solar zenith angle" units:"rad"`
	Elevation   float64 `desc:"Solar elevation angle" units:"rad"`
}

// fractionalYear calculates the fractional year [rad] for the NOAA
// solar position algorithm (Reda and Andreas 2004, as simplified in the
// NOAA General Solar Position Calculations).
func fractionalYear(t time.Time) float64 {
	u := t.UTC()
	doy := float64(u.YearDay())
	hour := float64(u.Hour()) + float64(u.Minute())/60 +
		float64(u.Second())/3600
	return 2 * math.Pi / 365 * (doy - 1 + (hour-12)/24)
}

// EquationOfTime calculates the equation of time [minutes] at time t.
func EquationOfTime(t time.Time) float64 {
	γ := fractionalYear(t)
	return 229.18 * (0.000075 + 0.001868*math.Cos(γ) -
		0.032077*math.Sin(γ) - 0.014615*math.Cos(2*γ) -
		0.040849*math.Sin(2*γ))
}

// Declination calculates the solar declination [rad] at time t.
func Declination(t time.Time) float64 {
	γ := fractionalYear(t)
	return 0.006918 - 0.399912*math.Cos(γ) + 0.070257*math.Sin(γ) -
		0.006758*math.Cos(2*γ) + 0.000907*math.Sin(2*γ) -
		0.002697*math.Cos(3*γ) + 0.00148*math.Sin(3*γ)
}

// HourAngle calculates the solar hour angle [rad] at time t and
// longitude [degrees east].
func HourAngle(t time.Time, longitude float64) float64 {
	u := t.UTC()
	minutes := float64(u.Hour())*60 + float64(u.Minute()) +
		float64(u.Second())/60
	trueSolarTime := minutes + EquationOfTime(t) + 4*longitude
	return (trueSolarTime/4 - 180) * deg2rad
}

// SunPosition calculates the apparent position of the sun at time t for
// an observer at latitude [degrees north] and longitude [degrees east].
func SunPosition(t time.Time, latitude, longitude float64) SolarPosition {
	δ := Declination(t)
	ha := HourAngle(t, longitude)
	φ := latitude * deg2rad
	cosZenith := math.Sin(φ)*math.Sin(δ) +
		math.Cos(φ)*math.Cos(δ)*math.Cos(ha)
	zenith := math.Acos(math.Max(-1, math.Min(1, cosZenith)))
	return SolarPosition{
		Declination: δ,
		HourAngle:   ha,
		Zenith:      zenith,
		Elevation:   math.Pi/2 - zenith,
	}
}

// sunriseHourAngle calculates the magnitude of the hour angle [rad] at
// sunrise and sunset, using the standard 90.833 degree zenith that
// accounts for atmospheric refraction and the solar disc radius.
func sunriseHourAngle(date time.Time, latitude float64) (float64, error) {
	δ := Declination(date)
	φ := latitude * deg2rad
	cosHA := math.Cos(90.833*deg2rad)/(math.Cos(φ)*math.Cos(δ)) -
		math.Tan(φ)*math.Tan(δ)
	if cosHA < -1 {
		return 0, ErrPolarDay
	}
	if cosHA > 1 {
		return 0, ErrPolarNight
	}
	return math.Acos(cosHA), nil
}

// Sunrise calculates the UTC time of sunrise on the date of t for an
// observer at latitude [degrees north] and longitude [degrees east].
func Sunrise(t time.Time, latitude, longitude float64) (time.Time, error) {
	return riseOrSet(t, latitude, longitude, 1)
}

// Sunset calculates the UTC time of sunset on the date of t for an
// observer at latitude [degrees north] and longitude [degrees east].
func Sunset(t time.Time, latitude, longitude float64) (time.Time, error) {
	return riseOrSet(t, latitude, longitude, -1)
}

func riseOrSet(t time.Time, latitude, longitude float64, sign float64) (time.Time, error) {
	ha, err := sunriseHourAngle(t, latitude)
	if err != nil {
		return time.Time{}, err
	}
	minutes := 720 - 4*(longitude+sign*ha*rad2deg) - EquationOfTime(t)
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(minutes * float64(time.Minute))), nil
}

// DayLength calculates the length of the day at latitude
// [degrees north] on the date of t.
func DayLength(t time.Time, latitude float64) (time.Duration, error) {
	ha, err := sunriseHourAngle(t, latitude)
	if err != nil {
		return 0, err
	}
	return time.Duration(8 * ha * rad2deg * float64(time.Minute)), nil
}
