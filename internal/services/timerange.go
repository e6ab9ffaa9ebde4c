package services

import (
	"strings"
	"time"
)

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

const (
	MinRangeDays     = 1
	MaxRangeDays     = 365
	DefaultRangeDays = 7
)

// Bucket is a contiguous date sub-range of the report window. Start and End
// are inclusive midnight dates; Anchor is the representative date used for
// week/month labels (Monday, first of month).
type Bucket struct {
	Anchor time.Time
	Start  time.Time
	End    time.Time
}

func (bucket Bucket) ActiveDays() int {
	return calendarDaysInclusive(bucket.Start, bucket.End)
}

func (bucket Bucket) Contains(day time.Time) bool {
	return !day.Before(bucket.Start) && !day.After(bucket.End)
}

func (bucket Bucket) Label(groupBy string) string {
	if groupBy == GroupByDay {
		return bucket.Start.Format("2006-01-02")
	}
	return bucket.Anchor.Format("2006-01-02")
}

type ReportWindow struct {
	Start    time.Time
	End      time.Time
	GroupBy  string
	Location *time.Location
}

func ParseGroupBy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case GroupByWeek:
		return GroupByWeek
	case GroupByMonth:
		return GroupByMonth
	default:
		return GroupByDay
	}
}

func ClampRangeDays(requested *int) int {
	if requested == nil {
		return DefaultRangeDays
	}
	if *requested < MinRangeDays {
		return MinRangeDays
	}
	if *requested > MaxRangeDays {
		return MaxRangeDays
	}
	return *requested
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// ResolveWindow turns a requested range and grouping into a concrete
// inclusive [Start, End] window ending today.
func ResolveWindow(rangeDays *int, rawGroupBy string, now time.Time, location *time.Location) ReportWindow {
	if location == nil {
		location = time.UTC
	}
	days := ClampRangeDays(rangeDays)
	end := DateAtLocation(now, location)
	return ReportWindow{
		Start:    end.AddDate(0, 0, -(days - 1)),
		End:      end,
		GroupBy:  ParseGroupBy(rawGroupBy),
		Location: location,
	}
}

func (window ReportWindow) Days() int {
	return calendarDaysInclusive(window.Start, window.End)
}

// calendarDaysInclusive counts calendar days on the civil dates rather than
// elapsed wall-clock hours, so a 23-hour spring-forward day still counts as
// a full day.
func calendarDaysInclusive(start time.Time, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

// Buckets enumerates the window's buckets in chronological order. The
// buckets are contiguous, never overlap, and together cover the window
// exactly; the first and last are clipped to the window edges.
func (window ReportWindow) Buckets() []Bucket {
	switch window.GroupBy {
	case GroupByWeek:
		return window.weekBuckets()
	case GroupByMonth:
		return window.monthBuckets()
	default:
		return window.dayBuckets()
	}
}

func (window ReportWindow) dayBuckets() []Bucket {
	buckets := make([]Bucket, 0, window.Days())
	for day := window.Start; !day.After(window.End); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{Anchor: day, Start: day, End: day})
	}
	return buckets
}

func (window ReportWindow) weekBuckets() []Bucket {
	buckets := make([]Bucket, 0)
	anchor := mondayOnOrBefore(window.Start)
	for !anchor.After(window.End) {
		bucket := Bucket{
			Anchor: anchor,
			Start:  maxDate(anchor, window.Start),
			End:    minDate(anchor.AddDate(0, 0, 6), window.End),
		}
		buckets = append(buckets, bucket)
		anchor = anchor.AddDate(0, 0, 7)
	}
	return buckets
}

func (window ReportWindow) monthBuckets() []Bucket {
	buckets := make([]Bucket, 0)
	anchor := time.Date(window.Start.Year(), window.Start.Month(), 1, 0, 0, 0, 0, window.Location)
	for !anchor.After(window.End) {
		monthEnd := anchor.AddDate(0, 1, -1)
		bucket := Bucket{
			Anchor: anchor,
			Start:  maxDate(anchor, window.Start),
			End:    minDate(monthEnd, window.End),
		}
		buckets = append(buckets, bucket)
		anchor = anchor.AddDate(0, 1, 0)
	}
	return buckets
}

func mondayOnOrBefore(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func maxDate(a time.Time, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}

func minDate(a time.Time, b time.Time) time.Time {
	if a.After(b) {
		return b
	}
	return a
}
