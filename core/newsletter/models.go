package newsletter

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lumen-youth/lumen/core"
)

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	Token     string    `json:"-"`          // unsubscribe token
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewSubscriber contains information needed to subscribe to the newsletter.
type NewSubscriber struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=255"`
}

func (ns *NewSubscriber) Validate(validate *validator.Validate) error {
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type Unsubscribe struct {
	Token string `json:"token" query:"token" validate:"required"`
}

type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// GetFilter selects a single Subscriber; the first non-empty field wins.
type GetFilter struct {
	ID    string
	Email string
	Token string
}
