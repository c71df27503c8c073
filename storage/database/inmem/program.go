package inmemdb

import (
	"context"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
)

type programRepository struct {
	db *table[program.Program]
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{db: db.program}
}

func (repo *programRepository) CreateProgram(_ context.Context, prog program.Program) (program.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prog.ID = newID()
	repo.db.rows[prog.ID] = &prog
	return prog, nil
}

func (repo *programRepository) QueryPrograms(_ context.Context, filter *program.QueryFilter, ordering []core.DBOrdering) ([]program.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	progs := make([]program.Program, 0, len(repo.db.rows))
	for _, prog := range repo.db.all() {
		if filter != nil {
			if filter.Search != "" &&
				!(containsFold(prog.Title, filter.Search) || containsFold(prog.Description, filter.Search) || containsFold(prog.Location, filter.Search)) {
				continue
			}
			if filter.Type != "" && prog.Type != filter.Type {
				continue
			}
			if filter.IsActive != nil && prog.IsActive != *filter.IsActive {
				continue
			}
		}
		progs = append(progs, prog)
	}

	order(progs, ordering, programField, func(a, b program.Program) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return progs, nil
}

func programField(prog program.Program, field string) interface{} {
	switch field {
	case "title":
		return prog.Title
	case "location":
		return prog.Location
	case "recurrence_type":
		return prog.Type
	case "is_active":
		return prog.IsActive
	case "updated_at":
		return prog.UpdatedAt
	}
	return prog.CreatedAt
}

func (repo *programRepository) GetProgram(_ context.Context, id string) (program.Program, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prog, ok := repo.db.get(id); ok {
		return prog, nil
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) UpdateProgram(_ context.Context, prog program.Program) (program.Program, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[prog.ID]
	if !ok {
		return program.Program{}, program.ErrNotFound
	}
	prog.CreatedAt = orig.CreatedAt
	prog.NextOccurrence, prog.Schedule = "", ""
	repo.db.rows[prog.ID] = &prog
	return prog, nil
}

func (repo *programRepository) DeleteProgramsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.db.deleteByID(ids...), nil
}
