package inmemdb

import (
	"context"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/volunteer"
)

type volunteerRepository struct {
	db *table[volunteer.Application]
}

var _ volunteer.Repository = (*volunteerRepository)(nil) // interface compliance check

func NewVolunteerRepository(db *DB) volunteer.Repository {
	return &volunteerRepository{db: db.volunteer}
}

func (repo *volunteerRepository) CreateApplication(_ context.Context, app volunteer.Application) (volunteer.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	app.ID = newID()
	repo.db.rows[app.ID] = &app
	return app, nil
}

func (repo *volunteerRepository) QueryApplications(_ context.Context, filter *volunteer.QueryFilter, ordering []core.DBOrdering) ([]volunteer.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	apps := make([]volunteer.Application, 0, len(repo.db.rows))
	for _, app := range repo.db.all() {
		if filter != nil {
			if filter.Search != "" && !(containsFold(app.Name, filter.Search) || containsFold(app.Email, filter.Search)) {
				continue
			}
			if filter.Status != "" && app.Status != filter.Status {
				continue
			}
			if filter.ProgramID != "" && app.ProgramID != filter.ProgramID {
				continue
			}
			if !filter.CreatedFrom.IsZero() && app.CreatedAt.Before(filter.CreatedFrom) {
				continue
			}
			if !filter.CreatedTo.IsZero() && app.CreatedAt.After(filter.CreatedTo) {
				continue
			}
		}
		apps = append(apps, app)
	}

	order(apps, ordering, applicationField, func(a, b volunteer.Application) bool { return a.CreatedAt.After(b.CreatedAt) })
	return apps, nil
}

func applicationField(app volunteer.Application, field string) interface{} {
	switch field {
	case "name":
		return app.Name
	case "email":
		return app.Email
	case "status":
		return string(app.Status)
	case "updated_at":
		return app.UpdatedAt
	}
	return app.CreatedAt
}

func (repo *volunteerRepository) GetApplication(_ context.Context, id string) (volunteer.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if app, ok := repo.db.get(id); ok {
		return app, nil
	}
	return volunteer.Application{}, volunteer.ErrNotFound
}

func (repo *volunteerRepository) UpdateApplication(_ context.Context, app volunteer.Application) (volunteer.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[app.ID]
	if !ok {
		return volunteer.Application{}, volunteer.ErrNotFound
	}
	orig.Status = app.Status
	orig.UpdatedAt = app.UpdatedAt
	return *orig, nil
}

func (repo *volunteerRepository) DeleteApplicationsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.db.deleteByID(ids...), nil
}
