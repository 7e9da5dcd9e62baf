// Package date provides the calendar arithmetic used by the ledger engine.
//
// Source exports carry timestamps as milliseconds since the Unix epoch. All
// computations are done in UTC: a day, a month or a year always starts at
// midnight UTC.
package date

import (
	"fmt"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromMillis returns the UTC day containing the timestamp ms.
func FromMillis(ms int64) Date { return New(Time(ms).Date()) }

// Millis returns the timestamp of the first millisecond of the day.
func (d Date) Millis() int64 { return d.time().UnixMilli() }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Format formats the date using a time layout.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		offset := int(d.Weekday() - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Quarterly:
		quarter := (d.Month() - 1) / 3
		return New(d.Year(), time.Month(quarter*3+1), 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	default:
		panic(fmt.Sprintf("unknown period %d", period))
	}
}

// Next returns the first day of the period following the one containing d.
func (d Date) Next(period Period) Date {
	start := d.StartOf(period)
	switch period {
	case Daily:
		return start.Add(1)
	case Weekly:
		return start.Add(7)
	case Monthly:
		return New(start.Year(), start.Month()+1, 1)
	case Quarterly:
		return New(start.Year(), start.Month()+3, 1)
	case Yearly:
		return New(start.Year()+1, time.January, 1)
	default:
		panic(fmt.Sprintf("unknown period %d", period))
	}
}
