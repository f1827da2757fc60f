package calendar

import "time"

// CopticEpochOffset separates a Coptic year from the Gregorian year in which
// it begins.
const CopticEpochOffset = 284

// Nasi is the thirteenth, short Coptic month.
const Nasi = 13

// CopticDate is a position in the Coptic calendar. It is always derived from
// a Gregorian date.
type CopticDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// IsLeapYear reports whether the date's Coptic year is a leap year.
func (c CopticDate) IsLeapYear() bool {
	return IsCopticLeap(c.Year)
}

// IsCopticLeap reports whether Nasi has six days in the given Coptic year.
func IsCopticLeap(copticYear int) bool {
	return (copticYear+1)%4 == 0
}

// MonthLength returns the number of days in a Coptic month.
func MonthLength(month, copticYear int) int {
	if month != Nasi {
		return 30
	}
	if IsCopticLeap(copticYear) {
		return 6
	}
	return 5
}

// CopticNewYear returns the Gregorian date of 1 Thout falling in a Gregorian
// year: 11 September, or 12 September when the preceding Gregorian year is
// a leap year.
func CopticNewYear(gregorianYear int) time.Time {
	day := 11
	if IsGregorianLeap(gregorianYear - 1) {
		day = 12
	}
	return NewDate(gregorianYear, time.September, day)
}

// ToCoptic converts a Gregorian date to its Coptic date. Every Gregorian
// date converts.
func ToCoptic(date time.Time) CopticDate {
	date = Truncate(date)

	epoch := CopticNewYear(date.Year())
	if date.Before(epoch) {
		epoch = CopticNewYear(date.Year() - 1)
	}

	offset := DaysBetween(epoch, date) + 1
	year := epoch.Year() - CopticEpochOffset

	if offset <= 360 {
		return CopticDate{
			Day:   (offset-1)%30 + 1,
			Month: (offset-1)/30 + 1,
			Year:  year,
		}
	}
	return CopticDate{Day: offset - 360, Month: Nasi, Year: year}
}
