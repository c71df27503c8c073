package inmemdb

import (
	"context"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
)

type contentRepository struct {
	db *table[content.Item]
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) CreateItem(_ context.Context, it content.Item) (content.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	it.ID = newID()
	repo.db.rows[it.ID] = &it
	return it, nil
}

func (repo *contentRepository) QueryItems(_ context.Context, filter *content.QueryFilter, ordering []core.DBOrdering) ([]content.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]content.Item, 0, len(repo.db.rows))
	for _, it := range repo.db.all() {
		if filter != nil {
			if filter.Search != "" &&
				!(containsFold(it.Title, filter.Search) || containsFold(it.Summary, filter.Search) || containsFold(it.Author, filter.Search)) {
				continue
			}
			if filter.Kind != "" && it.Kind != filter.Kind {
				continue
			}
			if filter.IsPublished != nil && it.IsPublished != *filter.IsPublished {
				continue
			}
		}
		items = append(items, it)
	}

	order(items, ordering, itemField, func(a, b content.Item) bool { return a.CreatedAt.After(b.CreatedAt) })
	return items, nil
}

func itemField(it content.Item, field string) interface{} {
	switch field {
	case "kind":
		return string(it.Kind)
	case "title":
		return it.Title
	case "author":
		return it.Author
	case "is_published":
		return it.IsPublished
	case "published_at":
		return it.PublishedAt
	case "updated_at":
		return it.UpdatedAt
	}
	return it.CreatedAt
}

func (repo *contentRepository) GetItem(_ context.Context, id string) (content.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if it, ok := repo.db.get(id); ok {
		return it, nil
	}
	return content.Item{}, content.ErrNotFound
}

func (repo *contentRepository) UpdateItem(_ context.Context, it content.Item) (content.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[it.ID]
	if !ok {
		return content.Item{}, content.ErrNotFound
	}
	it.Kind = orig.Kind
	it.CreatedAt = orig.CreatedAt
	repo.db.rows[it.ID] = &it
	return it, nil
}

func (repo *contentRepository) DeleteItemsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.db.deleteByID(ids...), nil
}
