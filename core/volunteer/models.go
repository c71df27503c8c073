package volunteer

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lumen-youth/lumen/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

var Statuses = []Status{StatusPending, StatusAccepted, StatusDeclined}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Application is a volunteer application submitted through the public site.
type Application struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	ProgramID    string    `json:"program_id"`
	Areas        []string  `json:"areas"`
	Availability string    `json:"availability"`
	Message      string    `json:"message"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// NewApplication contains information needed to submit an Application.
type NewApplication struct {
	Name         string   `json:"name" validate:"required,notblank,max=255"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"omitempty,max=32"`
	ProgramID    string   `json:"program_id"`
	Areas        []string `json:"areas" validate:"max=10,dive,notblank,max=64"`
	Availability string   `json:"availability" validate:"max=255"`
	Message      string   `json:"message" validate:"max=5000"`
}

func (na *NewApplication) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.Phone = core.CleanString(na.Phone)
	na.ProgramID = core.CleanString(na.ProgramID)
	na.Availability = core.CleanString(na.Availability)
	na.Message = core.CleanString(na.Message)
	for i, area := range na.Areas {
		na.Areas[i] = core.CleanString(area)
	}

	if err := validate.Struct(na); err != nil {
		return err
	}
	if na.ProgramID != "" {
		return svc.checkProgram(ctx, na.ProgramID)
	}
	return nil
}

type UpdateStatus struct {
	Status Status `json:"status" validate:"required,appstatus"`
}

func (us *UpdateStatus) Validate(validate *validator.Validate) error {
	us.Status = Status(core.CleanString(string(us.Status), true /* lower */))
	return validate.Struct(us)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Status      Status    `query:"status"`
	ProgramID   string    `query:"program_id"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.ProgramID == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
	qf.ProgramID = core.CleanString(qf.ProgramID)
}
