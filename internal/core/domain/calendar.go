package domain

import "time"

// DayBucket holds the tickets created on one calendar day.
type DayBucket struct {
	Day     int
	Date    time.Time
	Tickets []Ticket
	// Active is true when at least one ticket is open or in progress.
	Active bool
}

// CalendarMonth is a month of day buckets. Weekday offset of day 1 is kept so
// a grid can pad the first week.
type CalendarMonth struct {
	Year         int
	Month        time.Month
	FirstWeekday time.Weekday
	Days         []DayBucket
}

// BucketMonth partitions tickets by creation day for one month, evaluated in
// loc. Every day of the month gets a bucket; tickets created outside the month
// are ignored. A nil loc means UTC.
func BucketMonth(tickets []Ticket, year int, month time.Month, loc *time.Location) CalendarMonth {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Normalise month overflow, e.g. month 13.
	year, month = first.Year(), first.Month()
	daysIn := first.AddDate(0, 1, -1).Day()

	cal := CalendarMonth{
		Year:         year,
		Month:        month,
		FirstWeekday: first.Weekday(),
		Days:         make([]DayBucket, daysIn),
	}
	for i := range cal.Days {
		cal.Days[i] = DayBucket{Day: i + 1, Date: first.AddDate(0, 0, i)}
	}

	for _, t := range tickets {
		created := t.CreatedAt.In(loc)
		if created.Year() != year || created.Month() != month {
			continue
		}
		b := &cal.Days[created.Day()-1]
		b.Tickets = append(b.Tickets, t)
		if t.Status.IsActive() {
			b.Active = true
		}
	}
	return cal
}
