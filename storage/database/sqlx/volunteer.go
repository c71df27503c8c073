package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/volunteer"
)

const applicationColumns = "id, name, email, phone, program_id, areas, availability, message, status, created_at, updated_at"

type applicationRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	ProgramID    null.String    `db:"program_id"`
	Areas        pq.StringArray `db:"areas"`
	Availability string         `db:"availability"`
	Message      string         `db:"message"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func toApplicationRow(app volunteer.Application) applicationRow {
	areas := app.Areas
	if areas == nil {
		areas = []string{}
	}
	return applicationRow{
		ID:           app.ID,
		Name:         app.Name,
		Email:        app.Email,
		Phone:        app.Phone,
		ProgramID:    null.NewString(app.ProgramID, app.ProgramID != ""),
		Areas:        areas,
		Availability: app.Availability,
		Message:      app.Message,
		Status:       string(app.Status),
		CreatedAt:    app.CreatedAt.UTC(),
		UpdatedAt:    app.UpdatedAt.UTC(),
	}
}

func (r applicationRow) application() volunteer.Application {
	return volunteer.Application{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		ProgramID:    r.ProgramID.String,
		Areas:        r.Areas,
		Availability: r.Availability,
		Message:      r.Message,
		Status:       volunteer.Status(r.Status),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type volunteerRepository struct {
	db *sqlx.DB
}

var _ volunteer.Repository = (*volunteerRepository)(nil) // interface compliance check

func NewVolunteerRepository(db *sqlx.DB) volunteer.Repository {
	return &volunteerRepository{db: db}
}

func (repo *volunteerRepository) CreateApplication(ctx context.Context, app volunteer.Application) (volunteer.Application, error) {
	app.ID = uuid.New().String()
	row := toApplicationRow(app)
	q := `INSERT INTO volunteer_applications (` + applicationColumns + `)
		VALUES (:id, :name, :email, :phone, :program_id, :areas, :availability, :message, :status,
			:created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return volunteer.Application{}, errors.Wrap(err, "inserting volunteer application")
	}
	return row.application(), nil
}

func (repo *volunteerRepository) QueryApplications(ctx context.Context, filter *volunteer.QueryFilter, ordering []core.DBOrdering) ([]volunteer.Application, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "name", "email")
		if filter.Status != "" {
			w.add("status = ?", string(filter.Status))
		}
		if filter.ProgramID != "" {
			if !isValidID(filter.ProgramID) {
				return []volunteer.Application{}, nil
			}
			w.add("program_id = ?", filter.ProgramID)
		}
		if !filter.CreatedFrom.IsZero() {
			w.add("created_at >= ?", filter.CreatedFrom.UTC())
		}
		if !filter.CreatedTo.IsZero() {
			w.add("created_at <= ?", filter.CreatedTo.UTC())
		}
	}

	var rows []applicationRow
	q := repo.db.Rebind("SELECT " + applicationColumns + " FROM volunteer_applications" + w.String() + orderBy(ordering, "created_at DESC"))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying volunteer applications")
	}
	apps := make([]volunteer.Application, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, r.application())
	}
	return apps, nil
}

func (repo *volunteerRepository) GetApplication(ctx context.Context, id string) (volunteer.Application, error) {
	if !isValidID(id) {
		return volunteer.Application{}, volunteer.ErrNotFound
	}
	var row applicationRow
	q := repo.db.Rebind("SELECT " + applicationColumns + " FROM volunteer_applications WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return volunteer.Application{}, trapNoRowsErr(err, volunteer.ErrNotFound, "getting volunteer application")
	}
	return row.application(), nil
}

// UpdateApplication only saves the status.
func (repo *volunteerRepository) UpdateApplication(ctx context.Context, app volunteer.Application) (volunteer.Application, error) {
	if !isValidID(app.ID) {
		return volunteer.Application{}, volunteer.ErrNotFound
	}
	var row applicationRow
	q := repo.db.Rebind(`UPDATE volunteer_applications SET status = ?, updated_at = ? WHERE id = ? RETURNING ` + applicationColumns)
	if err := repo.db.GetContext(ctx, &row, q, string(app.Status), app.UpdatedAt.UTC(), app.ID); err != nil {
		return volunteer.Application{}, trapNoRowsErr(err, volunteer.ErrNotFound, "updating volunteer application")
	}
	return row.application(), nil
}

func (repo *volunteerRepository) DeleteApplicationsByID(ctx context.Context, ids ...string) (int, error) {
	return deleteByID(ctx, repo.db, "volunteer_applications", ids)
}
