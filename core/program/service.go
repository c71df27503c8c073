package program

import (
	"context"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
)

var (
	// errors
	ErrNotFound = errors.New("program not found")

	NowFunc = time.Now // mockable

	// orderable columns
	OrderingFields = []string{"title", "location", "recurrence_type", "is_active", "created_at", "updated_at"}
)

type (
	Repository interface {
		CreateProgram(ctx context.Context, prog Program) (Program, error)
		// QueryPrograms applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Title, Description or Location.
		QueryPrograms(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Program, error)
		GetProgram(ctx context.Context, id string) (Program, error)
		UpdateProgram(ctx context.Context, prog Program) (Program, error)
		DeleteProgramsByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo    Repository
		appName string
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, appName: conf.AppName}
}

// Create stores a validated NewProgram.
func (svc *Service) Create(ctx context.Context, np NewProgram) (Program, error) {
	now := NowFunc().UTC()
	prog := Program{
		Title:       np.Title,
		Description: np.Description,
		Location:    np.Location,
		ImageURL:    np.ImageURL,
		StartTime:   np.StartTime,
		Spec:        np.Spec,
		IsActive:    np.IsActive == nil || *np.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	prog, err := svc.repo.CreateProgram(ctx, prog)
	if err != nil {
		return Program{}, err
	}
	prog.Compute(NowFunc())
	return prog, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Program, error) {
	progs, err := svc.repo.QueryPrograms(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
	if err != nil {
		return nil, err
	}
	now := NowFunc()
	for i := range progs {
		progs[i].Compute(now)
	}
	return progs, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Program, error) {
	prog, err := svc.repo.GetProgram(ctx, id)
	if err != nil {
		return Program{}, err
	}
	prog.Compute(NowFunc())
	return prog, nil
}

// GetActive is Get restricted to active programs.
func (svc *Service) GetActive(ctx context.Context, id string) (Program, error) {
	prog, err := svc.Get(ctx, id)
	if err != nil {
		return Program{}, err
	}
	if !prog.IsActive {
		return Program{}, ErrNotFound
	}
	return prog, nil
}

// Update applies a validated UpdateProgram to `prog`.
func (svc *Service) Update(ctx context.Context, prog Program, up UpdateProgram) (Program, error) {
	prog.Title = up.Title
	if up.Description != nil {
		prog.Description = *up.Description
	}
	if up.Location != nil {
		prog.Location = *up.Location
	}
	if up.ImageURL != nil {
		prog.ImageURL = *up.ImageURL
	}
	if up.StartTime != nil {
		prog.StartTime = *up.StartTime
	}
	if up.IsActive != nil {
		prog.IsActive = *up.IsActive
	}
	prog.Spec = up.Spec
	prog.UpdatedAt = NowFunc().UTC()

	prog, err := svc.repo.UpdateProgram(ctx, prog)
	if err != nil {
		return Program{}, err
	}
	prog.Compute(NowFunc())
	return prog, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteProgramsByID(ctx, ids...)
	return err
}

func (svc *Service) active(ctx context.Context, now time.Time) ([]Program, error) {
	active := true
	progs, err := svc.repo.QueryPrograms(ctx, &QueryFilter{IsActive: &active}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying active programs")
	}
	res := progs[:0]
	for _, prog := range progs {
		prog.Compute(now)
		if !prog.Next().IsZero() {
			res = append(res, prog)
		}
	}
	return res, nil
}

// Upcoming returns the active programs whose next occurrence falls within `within` of `now`,
// soonest first. Programs sharing a date are sorted by title.
func (svc *Service) Upcoming(ctx context.Context, now time.Time, within time.Duration) ([]Program, error) {
	progs, err := svc.active(ctx, now)
	if err != nil {
		return nil, err
	}
	limit := now.Add(within)
	res := make([]Program, 0, len(progs))
	for _, prog := range progs {
		if !prog.Next().After(limit) {
			res = append(res, prog)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Next().Equal(res[j].Next()) {
			return res[i].Title < res[j].Title
		}
		return res[i].Next().Before(res[j].Next())
	})
	return res, nil
}

// Calendar returns an iCalendar document holding the next `n` occurrences of every active program.
func (svc *Service) Calendar(ctx context.Context, now time.Time, n int) (*ical.Calendar, error) {
	progs, err := svc.active(ctx, now)
	if err != nil {
		return nil, err
	}
	return newCalendar(svc.appName, progs, now, n), nil
}
