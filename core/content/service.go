package content

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
)

var (
	// errors
	ErrNotFound = errors.New("content not found")

	NowFunc = time.Now // mockable

	// orderable columns
	OrderingFields = []string{"kind", "title", "author", "is_published", "published_at", "created_at", "updated_at"}
)

type (
	Repository interface {
		CreateItem(ctx context.Context, it Item) (Item, error)
		// QueryItems applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Title, Summary or Author.
		QueryItems(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Item, error)
		GetItem(ctx context.Context, id string) (Item, error)
		UpdateItem(ctx context.Context, it Item) (Item, error)
		DeleteItemsByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a validated NewItem.
func (svc *Service) Create(ctx context.Context, ni NewItem) (Item, error) {
	now := NowFunc().UTC()
	it := Item{
		Kind:      ni.Kind,
		Title:     ni.Title,
		Summary:   ni.Summary,
		Body:      ni.Body,
		Author:    ni.Author,
		URL:       ni.URL,
		ImageURL:  ni.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	it.setPublished(ni.IsPublished, now)
	return svc.repo.CreateItem(ctx, it)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Item, error) {
	return svc.repo.QueryItems(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
}

func (svc *Service) Get(ctx context.Context, id string) (Item, error) {
	return svc.repo.GetItem(ctx, id)
}

// GetPublished is Get restricted to published items.
func (svc *Service) GetPublished(ctx context.Context, id string) (Item, error) {
	it, err := svc.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if !it.IsPublished {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// Update applies a validated UpdateItem to `it`.
func (svc *Service) Update(ctx context.Context, it Item, ui UpdateItem) (Item, error) {
	now := NowFunc().UTC()
	it.Title = ui.Title
	it.Summary = deref(ui.Summary)
	it.Body = deref(ui.Body)
	it.Author = deref(ui.Author)
	it.URL = deref(ui.URL)
	it.ImageURL = deref(ui.ImageURL)
	if ui.IsPublished != nil {
		it.setPublished(*ui.IsPublished, now)
	}
	it.UpdatedAt = now
	return svc.repo.UpdateItem(ctx, it)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteItemsByID(ctx, ids...)
	return err
}
