package recurrence

import (
	"fmt"
	"strconv"
)

// Describe returns the human readable schedule of `cfg`, e.g. "Every Wednesday".
func Describe(cfg Config) string {
	switch c := cfg.(type) {
	case Weekly:
		return "Every " + c.day.String()
	case BiWeekly:
		switch c.pattern {
		case WeekPatternFirstHalf:
			return fmt.Sprintf("First half %ss of every month", c.day)
		case WeekPatternSecondHalf:
			return fmt.Sprintf("Second half %ss of every month", c.day)
		default:
			return "Every " + c.day.String()
		}
	case Monthly:
		return "Every month on the " + Ordinal(c.day)
	}
	return ""
}

// Ordinal formats n with its English ordinal suffix: 1st, 2nd, 3rd, 4th, 11th, 21st...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
