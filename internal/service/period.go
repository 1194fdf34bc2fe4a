package service

import (
	"fmt"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// bucketIndex maps a timestamp to its bucket slot for the periodicity:
// hour of day for daily, weekday (0=Sunday) for weekly, day of month minus
// one for monthly, month minus one for yearly.
func bucketIndex(t time.Time, p model.Periodicity) int {
	switch p {
	case model.PeriodicityDaily:
		return t.Hour()
	case model.PeriodicityWeekly:
		return int(t.Weekday())
	case model.PeriodicityMonthly:
		return t.Day() - 1
	case model.PeriodicityYearly:
		return int(t.Month()) - 1
	}
	return 0
}

// periodLabel derives the human label for a bucket purely from the index and
// periodicity, e.g. "6:00 PM", "Monday", "3rd", "March".
func periodLabel(index int, p model.Periodicity) string {
	switch p {
	case model.PeriodicityDaily:
		return hourLabel(index)
	case model.PeriodicityWeekly:
		return weekdayNames[index]
	case model.PeriodicityMonthly:
		return ordinal(index + 1)
	case model.PeriodicityYearly:
		return monthNames[index]
	}
	return ""
}

// hourLabel formats an hour of day (0-23) on a 12-hour clock: 0 is
// "12:00 AM", 13 is "1:00 PM".
func hourLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}

// ordinal renders a day number with its English suffix. 11th-13th always
// take "th".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
