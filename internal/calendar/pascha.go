package calendar

import "time"

// JulianEaster returns the Julian-calendar month and day of Pascha for a
// year, using the Julian Easter congruences (Meeus).
func JulianEaster(year int) (time.Month, int) {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1

	return time.Month(month), day
}

// JulianOffset is the number of days the Gregorian calendar runs ahead of
// the Julian one in a given year. It changes at century boundaries.
func JulianOffset(year int) int {
	return year/100 - year/400 - 2
}

// JulianToGregorian projects a Julian month/day in year to the Gregorian date.
func JulianToGregorian(year int, month time.Month, day int) time.Time {
	return AddDays(NewDate(year, month, day), JulianOffset(year))
}

// PaschaGregorian returns the Gregorian date of Pascha for a civil year. It
// anchors every movable feast of that year.
func PaschaGregorian(year int) time.Time {
	month, day := JulianEaster(year)
	return JulianToGregorian(year, month, day)
}
