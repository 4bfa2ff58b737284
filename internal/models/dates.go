package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the canonical wire format for record dates.
const DateLayout = "2006-01-02"

const (
	startDay = 1
	endDay   = 30
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// SplitDate decomposes a stored date into year and two-digit month strings.
// Timestamps with a time part are accepted; anything unparsable yields empty
// strings.
func SplitDate(s string) (year, month string) {
	if len(s) < len(DateLayout) {
		return "", ""
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return "", ""
	}
	return strconv.Itoa(t.Year()), fmt.Sprintf("%02d", int(t.Month()))
}

// StartDate joins a month/year pair into a canonical date pinned to the 1st.
func StartDate(year, month string) string {
	if year == "" || month == "" {
		return ""
	}
	return joinDate(year, month, startDay)
}

// EndDate joins a month/year pair into a canonical date pinned to the 30th,
// or to the last day of months shorter than that. Missing parts mean the
// range is still ongoing.
func EndDate(year, month string) string {
	if year == "" || month == "" {
		return ""
	}
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	if errY != nil || errM != nil || m < 1 || m > 12 {
		return joinDate(year, month, endDay)
	}
	return joinDate(year, month, min(endDay, daysIn(y, time.Month(m))))
}

func joinDate(year, month string, day int) string {
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("%s-%s-%02d", year, month, day)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthName returns the English name for a "01".."12" month string.
func MonthName(month string) string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// FormatMonthYear renders a stored date as "Jan 2020".
func FormatMonthYear(s string) string {
	year, month := SplitDate(s)
	if year == "" {
		return ""
	}
	return MonthName(month)[:3] + " " + year
}
