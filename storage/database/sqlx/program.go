package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/recurrence"
)

const programColumns = "id, title, description, location, image_url, start_time, recurrence_type, day_of_week, week_pattern, day_of_month, is_active, created_at, updated_at"

type programRow struct {
	ID             string      `db:"id"`
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	Location       string      `db:"location"`
	ImageURL       string      `db:"image_url"`
	StartTime      null.String `db:"start_time"`
	RecurrenceType string      `db:"recurrence_type"`
	DayOfWeek      null.Int    `db:"day_of_week"`
	WeekPattern    null.String `db:"week_pattern"`
	DayOfMonth     null.Int    `db:"day_of_month"`
	IsActive       bool        `db:"is_active"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func toProgramRow(prog program.Program) programRow {
	return programRow{
		ID:             prog.ID,
		Title:          prog.Title,
		Description:    prog.Description,
		Location:       prog.Location,
		ImageURL:       prog.ImageURL,
		StartTime:      null.NewString(prog.StartTime, prog.StartTime != ""),
		RecurrenceType: prog.Type,
		DayOfWeek:      null.IntFromPtr(prog.DayOfWeek),
		WeekPattern:    null.NewString(prog.WeekPattern, prog.WeekPattern != ""),
		DayOfMonth:     null.IntFromPtr(prog.DayOfMonth),
		IsActive:       prog.IsActive,
		CreatedAt:      prog.CreatedAt.UTC(),
		UpdatedAt:      prog.UpdatedAt.UTC(),
	}
}

func (r programRow) program() program.Program {
	return program.Program{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		StartTime:   r.StartTime.String,
		Spec: recurrence.Spec{
			Type:        r.RecurrenceType,
			DayOfWeek:   r.DayOfWeek.Ptr(),
			WeekPattern: r.WeekPattern.String,
			DayOfMonth:  r.DayOfMonth.Ptr(),
		},
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *sqlx.DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) CreateProgram(ctx context.Context, prog program.Program) (program.Program, error) {
	prog.ID = uuid.New().String()
	row := toProgramRow(prog)
	q := `INSERT INTO programs (` + programColumns + `)
		VALUES (:id, :title, :description, :location, :image_url, :start_time, :recurrence_type, :day_of_week,
			:week_pattern, :day_of_month, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return program.Program{}, errors.Wrap(err, "inserting program")
	}
	return row.program(), nil
}

func (repo *programRepository) QueryPrograms(ctx context.Context, filter *program.QueryFilter, ordering []core.DBOrdering) ([]program.Program, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "title", "description", "location")
		if filter.Type != "" {
			w.add("recurrence_type = ?", filter.Type)
		}
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
	}

	var rows []programRow
	q := repo.db.Rebind("SELECT " + programColumns + " FROM programs" + w.String() + orderBy(ordering, "created_at"))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	progs := make([]program.Program, 0, len(rows))
	for _, r := range rows {
		progs = append(progs, r.program())
	}
	return progs, nil
}

func (repo *programRepository) GetProgram(ctx context.Context, id string) (program.Program, error) {
	if !isValidID(id) {
		return program.Program{}, program.ErrNotFound
	}
	var row programRow
	q := repo.db.Rebind("SELECT " + programColumns + " FROM programs WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return program.Program{}, trapNoRowsErr(err, program.ErrNotFound, "getting program")
	}
	return row.program(), nil
}

func (repo *programRepository) UpdateProgram(ctx context.Context, prog program.Program) (program.Program, error) {
	if !isValidID(prog.ID) {
		return program.Program{}, program.ErrNotFound
	}
	row := toProgramRow(prog)
	q := `UPDATE programs SET title = :title, description = :description, location = :location,
			image_url = :image_url, start_time = :start_time, recurrence_type = :recurrence_type,
			day_of_week = :day_of_week, week_pattern = :week_pattern, day_of_month = :day_of_month,
			is_active = :is_active, updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + programColumns
	rows, err := repo.db.NamedQueryContext(ctx, q, row)
	if err != nil {
		return program.Program{}, errors.Wrap(err, "updating program")
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return program.Program{}, errors.Wrap(err, "updating program")
		}
		return program.Program{}, program.ErrNotFound
	}
	var updated programRow
	if err = rows.StructScan(&updated); err != nil {
		return program.Program{}, errors.Wrap(err, "scanning program")
	}
	return updated.program(), nil
}

func (repo *programRepository) DeleteProgramsByID(ctx context.Context, ids ...string) (int, error) {
	return deleteByID(ctx, repo.db, "programs", ids)
}
