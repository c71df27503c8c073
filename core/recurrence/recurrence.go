// Package recurrence computes when a recurring program next takes place
// and how its schedule reads to humans.
package recurrence

import (
	"strings"
	"time"
)

type (
	Kind        string
	WeekPattern string
)

const (
	KindWeekly   Kind = "weekly"
	KindBiWeekly Kind = "bi-weekly"
	KindMonthly  Kind = "monthly"

	WeekPatternAll        WeekPattern = "all"
	WeekPatternFirstHalf  WeekPattern = "1,2" // day of month 1 - 14
	WeekPatternSecondHalf WeekPattern = "3,4" // day of month 15 - end

	// last day of the first half of a month
	firstHalfEnd = 14
)

var (
	Kinds        = []Kind{KindWeekly, KindBiWeekly, KindMonthly}
	WeekPatterns = []WeekPattern{WeekPatternAll, WeekPatternFirstHalf, WeekPatternSecondHalf}
)

// Config is a validated recurrence: one of Weekly, BiWeekly or Monthly.
// Values can only be obtained through the constructors or Spec.Parse.
type Config interface {
	Kind() Kind
	isConfig()
}

type Weekly struct {
	day time.Weekday
}

type BiWeekly struct {
	day     time.Weekday
	pattern WeekPattern
}

type Monthly struct {
	day int
}

func (Weekly) Kind() Kind   { return KindWeekly }
func (BiWeekly) Kind() Kind { return KindBiWeekly }
func (Monthly) Kind() Kind  { return KindMonthly }

func (Weekly) isConfig()   {}
func (BiWeekly) isConfig() {}
func (Monthly) isConfig()  {}

func (w Weekly) Day() time.Weekday       { return w.day }
func (bw BiWeekly) Day() time.Weekday    { return bw.day }
func (bw BiWeekly) Pattern() WeekPattern { return bw.pattern }
func (m Monthly) Day() int               { return m.day }

// NewWeekly returns a weekly recurrence on `dayOfWeek` (0 = Sunday).
func NewWeekly(dayOfWeek int) (Weekly, error) {
	day, err := weekday(dayOfWeek)
	if err != nil {
		return Weekly{}, err
	}
	return Weekly{day: day}, nil
}

// NewBiWeekly returns a recurrence on `dayOfWeek` restricted to one half of the month.
// An empty pattern means WeekPatternAll.
func NewBiWeekly(dayOfWeek int, pattern WeekPattern) (BiWeekly, error) {
	day, err := weekday(dayOfWeek)
	if err != nil {
		return BiWeekly{}, err
	}
	pattern = WeekPattern(strings.ReplaceAll(string(pattern), " ", ""))
	switch pattern {
	case "":
		pattern = WeekPatternAll
	case WeekPatternAll, WeekPatternFirstHalf, WeekPatternSecondHalf:
	default:
		return BiWeekly{}, invalid("week_pattern", "week pattern must be one of %q, %q or %q",
			WeekPatternAll, WeekPatternFirstHalf, WeekPatternSecondHalf)
	}
	return BiWeekly{day: day, pattern: pattern}, nil
}

// NewMonthly returns a monthly recurrence on `dayOfMonth` (1 - 31).
func NewMonthly(dayOfMonth int) (Monthly, error) {
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return Monthly{}, invalid("day_of_month", "day of month must be between 1 and 31")
	}
	return Monthly{day: dayOfMonth}, nil
}

func weekday(d int) (time.Weekday, error) {
	if d < int(time.Sunday) || d > int(time.Saturday) {
		return 0, invalid("day_of_week", "day of week must be between 0 (Sunday) and 6 (Saturday)")
	}
	return time.Weekday(d), nil
}

// Spec is the raw, unvalidated recurrence as stored with a program or sent by a client.
type Spec struct {
	Type        string `json:"recurrence_type" db:"recurrence_type"`
	DayOfWeek   *int   `json:"day_of_week" db:"day_of_week"`
	WeekPattern string `json:"week_pattern,omitempty" db:"week_pattern"`
	DayOfMonth  *int   `json:"day_of_month" db:"day_of_month"`
}

// Parse validates the Spec and returns the matching Config.
// Fields that do not apply to the recurrence type are ignored.
func (s Spec) Parse() (Config, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s.Type))) {
	case KindWeekly:
		if s.DayOfWeek == nil {
			return nil, invalid("day_of_week", "day of week is required for weekly programs")
		}
		return NewWeekly(*s.DayOfWeek)
	case KindBiWeekly:
		if s.DayOfWeek == nil {
			return nil, invalid("day_of_week", "day of week is required for bi-weekly programs")
		}
		return NewBiWeekly(*s.DayOfWeek, WeekPattern(s.WeekPattern))
	case KindMonthly:
		if s.DayOfMonth == nil {
			return nil, invalid("day_of_month", "day of month is required for monthly programs")
		}
		return NewMonthly(*s.DayOfMonth)
	case "":
		return nil, invalid("recurrence_type", "recurrence type is required")
	default:
		return nil, &Error{
			Err:    ErrUnsupportedType,
			Field:  "recurrence_type",
			Reason: "recurrence type must be one of weekly, bi-weekly or monthly",
		}
	}
}

// SpecOf returns the normalized Spec of a Config; only the fields relevant to its kind are set.
func SpecOf(cfg Config) Spec {
	intPtr := func(i int) *int { return &i }

	switch c := cfg.(type) {
	case Weekly:
		return Spec{Type: string(KindWeekly), DayOfWeek: intPtr(int(c.day))}
	case BiWeekly:
		return Spec{Type: string(KindBiWeekly), DayOfWeek: intPtr(int(c.day)), WeekPattern: string(c.pattern)}
	case Monthly:
		return Spec{Type: string(KindMonthly), DayOfMonth: intPtr(c.day)}
	}
	return Spec{}
}

// NextOccurrenceOf parses `s` and returns its next occurrence after `now`.
func NextOccurrenceOf(s Spec, now time.Time) (time.Time, error) {
	cfg, err := s.Parse()
	if err != nil {
		return time.Time{}, err
	}
	return NextOccurrence(cfg, now), nil
}

// DescribeSpec parses `s` and returns its human readable schedule.
func DescribeSpec(s Spec) (string, error) {
	cfg, err := s.Parse()
	if err != nil {
		return "", err
	}
	return Describe(cfg), nil
}
