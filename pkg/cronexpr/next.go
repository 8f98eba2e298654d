package cronexpr

import (
	"sort"
	"time"
)

// lookahead bounds Next's search. Expressions like "0 0 30 2 *" never
// match; five years is enough to cover every leap-year combination.
const lookaheadYears = 5

// Matches reports whether t (to minute precision, in t's location)
// belongs to the parsed schedule.
func (p *ParsedCron) Matches(t time.Time) bool {
	return contains(p.Month, int(t.Month())) &&
		p.dayMatches(t) &&
		contains(p.Hour, t.Hour()) &&
		contains(p.Minute, t.Minute())
}

// Next returns the first instant strictly after the given time that
// matches the schedule, evaluated in that time's location. It returns
// the zero time when nothing matches within the lookahead window.
func (p *ParsedCron) Next(after time.Time) time.Time {
	loc := after.Location()
	// Wall-clock construction throughout: Truncate works on absolute time
	// and would land off the local minute/hour boundary in zones with
	// fractional-hour offsets.
	t := time.Date(after.Year(), after.Month(), after.Day(), after.Hour(), after.Minute()+1, 0, 0, loc)
	limit := after.AddDate(lookaheadYears, 0, 0)

	for t.Before(limit) {
		if !contains(p.Month, int(t.Month())) {
			// Jump to the first minute of the next month.
			t = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
			continue
		}
		if !p.dayMatches(t) {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
			continue
		}
		if !contains(p.Hour, t.Hour()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
			continue
		}
		if !contains(p.Minute, t.Minute()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()+1, 0, 0, loc)
			continue
		}
		return t
	}
	return time.Time{}
}

// dayMatches applies the vixie day rule: when both day-of-month and
// day-of-week are restricted, either may match; otherwise both must.
func (p *ParsedCron) dayMatches(t time.Time) bool {
	domOK := contains(p.DayOfMonth, t.Day())
	dowOK := contains(p.DayOfWeek, int(t.Weekday()))
	domRestricted := !isFull(p.DayOfMonth, fieldBounds[FieldDayOfMonth])
	dowRestricted := !isFull(p.DayOfWeek, fieldBounds[FieldDayOfWeek])
	if domRestricted && dowRestricted {
		return domOK || dowOK
	}
	return domOK && dowOK
}

func contains(set []int, v int) bool {
	i := sort.SearchInts(set, v)
	return i < len(set) && set[i] == v
}

func isFull(set []int, b bounds) bool {
	return len(set) == b.max-b.min+1
}
