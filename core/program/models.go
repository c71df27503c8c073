package program

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/recurrence"
)

const DateLayout = "2006-01-02"

type Program struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
	StartTime   string `json:"start_time"` // HH:MM, empty for all-day programs
	recurrence.Spec
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC

	// computed on read
	NextOccurrence string `json:"next_occurrence,omitempty"` // YYYY-MM-DD
	Schedule       string `json:"schedule,omitempty"`

	next time.Time
}

// Compute sets NextOccurrence and Schedule relative to `now`.
// Programs holding an invalid recurrence are left untouched.
func (p *Program) Compute(now time.Time) {
	cfg, err := p.Spec.Parse()
	if err != nil {
		return
	}
	p.next = recurrence.NextOccurrence(cfg, now)
	p.NextOccurrence = p.next.Format(DateLayout)
	p.Schedule = recurrence.Describe(cfg)
}

// Next returns the occurrence computed by the last call to Compute.
func (p Program) Next() time.Time {
	return p.next
}

// StartsAt returns the start of the program on `day`: `day` itself for all-day programs.
func (p Program) StartsAt(day time.Time) (t time.Time, allDay bool) {
	start, err := time.Parse("15:04", p.StartTime)
	if p.StartTime == "" || err != nil {
		return day, true
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, day.Location()), false
}

// NewProgram contains information needed to create a new Program.
type NewProgram struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"max=255"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	StartTime   string `json:"start_time" validate:"omitempty,clock"`
	recurrence.Spec
	IsActive *bool `json:"is_active"`
}

func (np *NewProgram) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.Location = core.CleanString(np.Location)
	np.ImageURL = core.CleanString(np.ImageURL)
	np.StartTime = core.CleanString(np.StartTime)

	if err := validate.Struct(np); err != nil {
		return err
	}
	spec, err := parseSpec(np.Spec)
	if err != nil {
		return err
	}
	np.Spec = spec
	return nil
}

// UpdateProgram defines what information may be provided to modify an existing Program.
// Empty fields keep their current value; the recurrence is replaced only when its type is provided.
type UpdateProgram struct {
	Title       string  `json:"title" validate:"max=255"`
	Description *string `json:"description"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	StartTime   *string `json:"start_time" validate:"omitempty,clock"`
	recurrence.Spec
	IsActive *bool `json:"is_active"`
}

func (up *UpdateProgram) Validate(orig Program, validate *validator.Validate) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = orig.Title
	}
	cleanPtr := func(s *string) {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	cleanPtr(up.Description)
	cleanPtr(up.Location)
	cleanPtr(up.ImageURL)
	cleanPtr(up.StartTime)

	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.Spec.Type == "" {
		up.Spec = orig.Spec
		return nil
	}
	spec, err := parseSpec(up.Spec)
	if err != nil {
		return err
	}
	up.Spec = spec
	return nil
}

// parseSpec normalizes `s`, reporting recurrence errors against the offending field.
func parseSpec(s recurrence.Spec) (recurrence.Spec, error) {
	cfg, err := s.Parse()
	if err != nil {
		var rerr *recurrence.Error
		if errors.As(err, &rerr) {
			return s, core.NewValidationError(rerr, core.FieldError{Field: rerr.Field, Error: rerr.Reason})
		}
		return s, err
	}
	return recurrence.SpecOf(cfg), nil
}

type QueryFilter struct {
	Search   string `query:"search"`
	Type     string `query:"type"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Type == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
}
