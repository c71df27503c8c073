package recurrence

import "time"

// NextOccurrence returns the first date strictly after `now`'s date on which `cfg` occurs.
// The result is the start of that day in `now`'s location (midnight, unless a DST
// transition skips midnight); time of day is ignored.
func NextOccurrence(cfg Config, now time.Time) time.Time {
	return startOfDay(next(cfg, civilDate(now)), now.Location())
}

// Occurrences returns the next `n` occurrences of `cfg` after `now`, in order.
func Occurrences(cfg Config, now time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, n)
	day := civilDate(now)
	for i := 0; i < n; i++ {
		day = next(cfg, day)
		dates = append(dates, startOfDay(day, now.Location()))
	}
	return dates
}

// next works on civil dates (midnight UTC) so DST never shifts a day.
func next(cfg Config, today time.Time) time.Time {
	switch c := cfg.(type) {
	case Weekly:
		return nextWeekday(today, c.day)
	case BiWeekly:
		return nextBiWeekly(today, c)
	case Monthly:
		return nextMonthDay(today, c.day)
	}
	return time.Time{}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfDay returns the first instant of the civil date `day` in `loc`.
// Where midnight does not exist (America/Santiago), that is the end of the gap.
func startOfDay(day time.Time, loc *time.Location) time.Time {
	if day.IsZero() {
		return day
	}
	y, m, d := day.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 24; i++ {
		if ty, tm, td := t.Date(); ty == y && tm == m && td == d {
			break
		}
		t = t.Add(time.Hour)
	}
	return t
}

// nextWeekday rolls to next week when `today` already is `day`.
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	delta := int(day) - int(today.Weekday())
	if delta <= 0 {
		delta += 7
	}
	return today.AddDate(0, 0, delta)
}

func nextBiWeekly(today time.Time, bw BiWeekly) time.Time {
	candidate := nextWeekday(today, bw.day)

	switch bw.pattern {
	case WeekPatternFirstHalf:
		if candidate.Day() > firstHalfEnd {
			return firstWeekdayOfMonth(candidate.Year(), candidate.Month()+1, bw.day)
		}
	case WeekPatternSecondHalf:
		if candidate.Day() <= firstHalfEnd {
			return candidate.AddDate(0, 0, 14)
		}
	}
	return candidate
}

// firstWeekdayOfMonth searches day by day from the 1st; month overflow (13) is normalized by time.Date.
func firstWeekdayOfMonth(year int, month time.Month, day time.Weekday) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// nextMonthDay skips months that do not have `day` (e.g. the 31st in April).
func nextMonthDay(today time.Time, day int) time.Time {
	year, month := today.Year(), today.Month()
	for {
		if day <= daysIn(year, month) {
			candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if candidate.After(today) {
				return candidate
			}
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of `month`
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
