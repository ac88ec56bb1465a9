package localtime

import (
	"errors"
	"time"
)

// Zone is the fixed UTC+8 offset every client-facing timestamp is rendered in.
// No timezone database and no DST: the offset never changes.
var Zone = time.FixedZone("UTC+8", 8*60*60)

const (
	DateLayout    = "2006-01-02"
	MonthLayout   = "2006-01"
	DisplayLayout = "2006-01-02 15:04"
	OrderNoLayout = "20060102150405"
	orderNoPrefix = "ORD-"
)

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
var ErrInvalidMonth = errors.New("invalid month format, use YYYY-MM")

// In converts t to UTC+8.
func In(t time.Time) time.Time {
	return t.In(Zone)
}

// Format renders t as "YYYY-MM-DD HH:MM" in UTC+8.
func Format(t time.Time) string {
	return t.In(Zone).Format(DisplayLayout)
}

// OrderNumber builds "ORD-YYYYMMDDHHMMSS" from the UTC+8 wall clock.
func OrderNumber(t time.Time) string {
	return orderNoPrefix + t.In(Zone).Format(OrderNoLayout)
}

// StartOfDay returns local midnight of the day containing t, expressed in UTC+8.
func StartOfDay(t time.Time) time.Time {
	l := t.In(Zone)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Zone)
}

// DayRange converts optional inclusive local calendar days into a half-open UTC range [from, to).
// Empty bounds come back as zero times.
func DayRange(startDate, endDate string) (from, to time.Time, err error) {
	if startDate != "" {
		d, err := time.ParseInLocation(DateLayout, startDate, Zone)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		from = d.UTC()
	}
	if endDate != "" {
		d, err := time.ParseInLocation(DateLayout, endDate, Zone)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		to = d.AddDate(0, 0, 1).UTC()
	}
	return from, to, nil
}

// MonthRange returns the UTC bounds [from, to) of a local calendar month.
// An empty month selects the month containing now.
func MonthRange(month string, now time.Time) (from, to time.Time, err error) {
	var start time.Time
	if month == "" {
		l := now.In(Zone)
		start = time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, Zone)
	} else {
		start, err = time.ParseInLocation(MonthLayout, month, Zone)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidMonth
		}
	}
	return start.UTC(), start.AddDate(0, 1, 0).UTC(), nil
}
