package volunteer

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
)

var (
	// errors
	ErrNotFound       = errors.New("volunteer application not found")
	ErrUnknownProgram = errors.New("program not found")

	NowFunc = time.Now // mockable

	// orderable columns
	OrderingFields = []string{"name", "email", "status", "created_at", "updated_at"}
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		// QueryApplications applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name or Email.
		QueryApplications(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		UpdateApplication(ctx context.Context, app Application) (Application, error)
		DeleteApplicationsByID(ctx context.Context, ids ...string) (int, error)
	}

	// ProgramFinder looks up the program an applicant wants to help with.
	ProgramFinder interface {
		GetProgram(ctx context.Context, id string) (program.Program, error)
	}

	Service struct {
		repo        Repository
		programs    ProgramFinder
		mailSvc     core.EmailService
		staffEmails []mail.Address
	}
)

func NewService(repo Repository, programs ProgramFinder, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:        repo,
		programs:    programs,
		mailSvc:     mailSvc,
		staffEmails: conf.StaffEmails,
	}
}

func (svc *Service) checkProgram(ctx context.Context, id string) error {
	if _, err := svc.programs.GetProgram(ctx, id); err != nil {
		if errors.Cause(err) == program.ErrNotFound {
			return core.NewFieldValidationError("program_id", ErrUnknownProgram)
		}
		return errors.Wrap(err, "checking program")
	}
	return nil
}

// Submit stores a validated NewApplication as pending,
// then notifies the applicant and the staff.
func (svc *Service) Submit(ctx context.Context, na NewApplication) (Application, error) {
	now := NowFunc().UTC()
	app := Application{
		Name:         na.Name,
		Email:        na.Email,
		Phone:        na.Phone,
		ProgramID:    na.ProgramID,
		Areas:        na.Areas,
		Availability: na.Availability,
		Message:      na.Message,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if app.Areas == nil {
		app.Areas = []string{}
	}
	app, err := svc.repo.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, err
	}

	msgs := []*core.EmailMessage{{
		To:           []mail.Address{{Name: app.Name, Address: app.Email}},
		Subject:      "We received your application",
		TemplateName: "volunteer_confirmation",
		TemplateData: app,
	}}
	if len(svc.staffEmails) > 0 {
		msgs = append(msgs, &core.EmailMessage{
			To:           svc.staffEmails,
			ReplyTo:      &mail.Address{Name: app.Name, Address: app.Email},
			Subject:      "New volunteer application: " + app.Name,
			TemplateName: "volunteer_notification",
			TemplateData: app,
		})
	}
	svc.mailSvc.SendMessages(msgs...)
	return app, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Application, error) {
	return svc.repo.QueryApplications(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
}

func (svc *Service) Get(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, id)
}

func (svc *Service) SetStatus(ctx context.Context, app Application, status Status) (Application, error) {
	app.Status = status
	app.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateApplication(ctx, app)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteApplicationsByID(ctx, ids...)
	return err
}
