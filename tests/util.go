package testutil

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/recurrence"
	"github.com/lumen-youth/lumen/core/user"
	"github.com/lumen-youth/lumen/core/volunteer"
	"github.com/lumen-youth/lumen/services/logger"
)

// NewLogger returns a logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

// NewValidator returns a validator with every app validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	volunteer.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateProgram(
	t *testing.T,
	repo program.Repository,
	title, startTime string,
	spec recurrence.Spec,
	isActive bool,
	createdAt ...time.Time,
) program.Program {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if cfg, err := spec.Parse(); err == nil {
		spec = recurrence.SpecOf(cfg)
	}
	prog, err := repo.CreateProgram(context.Background(), program.Program{
		Title:     title,
		StartTime: startTime,
		Spec:      spec,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createProgram() failed: %v", err)
	}
	return prog
}

func Weekly(day int) recurrence.Spec {
	return recurrence.Spec{Type: string(recurrence.KindWeekly), DayOfWeek: &day}
}

func BiWeekly(day int, pattern recurrence.WeekPattern) recurrence.Spec {
	return recurrence.Spec{Type: string(recurrence.KindBiWeekly), DayOfWeek: &day, WeekPattern: string(pattern)}
}

func Monthly(day int) recurrence.Spec {
	return recurrence.Spec{Type: string(recurrence.KindMonthly), DayOfMonth: &day}
}
