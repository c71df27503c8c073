package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
)

const itemColumns = "id, kind, title, summary, body, author, url, image_url, is_published, published_at, created_at, updated_at"

type itemRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Body        string    `db:"body"`
	Author      string    `db:"author"`
	URL         string    `db:"url"`
	ImageURL    string    `db:"image_url"`
	IsPublished bool      `db:"is_published"`
	PublishedAt null.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func toItemRow(it content.Item) itemRow {
	row := itemRow{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Title:       it.Title,
		Summary:     it.Summary,
		Body:        it.Body,
		Author:      it.Author,
		URL:         it.URL,
		ImageURL:    it.ImageURL,
		IsPublished: it.IsPublished,
		CreatedAt:   it.CreatedAt.UTC(),
		UpdatedAt:   it.UpdatedAt.UTC(),
	}
	if it.PublishedAt != nil {
		row.PublishedAt = null.TimeFrom(it.PublishedAt.UTC())
	}
	return row
}

func (r itemRow) item() content.Item {
	it := content.Item{
		ID:          r.ID,
		Kind:        content.Kind(r.Kind),
		Title:       r.Title,
		Summary:     r.Summary,
		Body:        r.Body,
		Author:      r.Author,
		URL:         r.URL,
		ImageURL:    r.ImageURL,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.PublishedAt.Valid {
		publishedAt := r.PublishedAt.Time.UTC()
		it.PublishedAt = &publishedAt
	}
	return it
}

type contentRepository struct {
	db *sqlx.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *sqlx.DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) CreateItem(ctx context.Context, it content.Item) (content.Item, error) {
	it.ID = uuid.New().String()
	row := toItemRow(it)
	q := `INSERT INTO content_items (` + itemColumns + `)
		VALUES (:id, :kind, :title, :summary, :body, :author, :url, :image_url, :is_published, :published_at,
			:created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return content.Item{}, errors.Wrap(err, "inserting content item")
	}
	return row.item(), nil
}

func (repo *contentRepository) QueryItems(ctx context.Context, filter *content.QueryFilter, ordering []core.DBOrdering) ([]content.Item, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "title", "summary", "author")
		if filter.Kind != "" {
			w.add("kind = ?", string(filter.Kind))
		}
		if filter.IsPublished != nil {
			w.add("is_published = ?", *filter.IsPublished)
		}
	}

	var rows []itemRow
	q := repo.db.Rebind("SELECT " + itemColumns + " FROM content_items" + w.String() + orderBy(ordering, "created_at DESC"))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying content items")
	}
	items := make([]content.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

func (repo *contentRepository) GetItem(ctx context.Context, id string) (content.Item, error) {
	if !isValidID(id) {
		return content.Item{}, content.ErrNotFound
	}
	var row itemRow
	q := repo.db.Rebind("SELECT " + itemColumns + " FROM content_items WHERE id = ?")
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return content.Item{}, trapNoRowsErr(err, content.ErrNotFound, "getting content item")
	}
	return row.item(), nil
}

// UpdateItem never changes the kind of an item.
func (repo *contentRepository) UpdateItem(ctx context.Context, it content.Item) (content.Item, error) {
	if !isValidID(it.ID) {
		return content.Item{}, content.ErrNotFound
	}
	row := toItemRow(it)
	q := `UPDATE content_items SET title = :title, summary = :summary, body = :body, author = :author,
			url = :url, image_url = :image_url, is_published = :is_published, published_at = :published_at,
			updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + itemColumns
	rows, err := repo.db.NamedQueryContext(ctx, q, row)
	if err != nil {
		return content.Item{}, errors.Wrap(err, "updating content item")
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return content.Item{}, errors.Wrap(err, "updating content item")
		}
		return content.Item{}, content.ErrNotFound
	}
	var updated itemRow
	if err = rows.StructScan(&updated); err != nil {
		return content.Item{}, errors.Wrap(err, "scanning content item")
	}
	return updated.item(), nil
}

func (repo *contentRepository) DeleteItemsByID(ctx context.Context, ids ...string) (int, error) {
	return deleteByID(ctx, repo.db, "content_items", ids)
}
