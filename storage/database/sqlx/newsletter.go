package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/newsletter"
)

const subscriberColumns = "id, email, name, is_active, token, created_at, updated_at"

type subscriberRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r subscriberRow) subscriber() newsletter.Subscriber {
	return newsletter.Subscriber{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		IsActive:  r.IsActive,
		Token:     r.Token,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type newsletterRepository struct {
	db *sqlx.DB
}

var _ newsletter.Repository = (*newsletterRepository)(nil) // interface compliance check

func NewNewsletterRepository(db *sqlx.DB) newsletter.Repository {
	return &newsletterRepository{db: db}
}

func (repo *newsletterRepository) CreateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	row := subscriberRow{
		ID:        uuid.New().String(),
		Email:     sub.Email,
		Name:      sub.Name,
		IsActive:  sub.IsActive,
		Token:     sub.Token,
		CreatedAt: sub.CreatedAt.UTC(),
		UpdatedAt: sub.UpdatedAt.UTC(),
	}
	q := `INSERT INTO newsletter_subscribers (` + subscriberColumns + `)
		VALUES (:id, :email, :name, :is_active, :token, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "newsletter_subscribers_email_key" {
			return newsletter.Subscriber{}, newsletter.ErrAlreadySubscribed
		}
		return newsletter.Subscriber{}, errors.Wrap(err, "inserting subscriber")
	}
	return row.subscriber(), nil
}

func (repo *newsletterRepository) QuerySubscribers(ctx context.Context, filter *newsletter.QueryFilter, ordering []core.DBOrdering) ([]newsletter.Subscriber, error) {
	var w where
	if filter != nil {
		w.search(filter.Search, "email", "name")
		if filter.IsActive != nil {
			w.add("is_active = ?", *filter.IsActive)
		}
	}

	var rows []subscriberRow
	q := repo.db.Rebind("SELECT " + subscriberColumns + " FROM newsletter_subscribers" + w.String() + orderBy(ordering, "created_at DESC"))
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "querying subscribers")
	}
	subs := make([]newsletter.Subscriber, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.subscriber())
	}
	return subs, nil
}

func (repo *newsletterRepository) GetSubscriber(ctx context.Context, filter newsletter.GetFilter) (newsletter.Subscriber, error) {
	var w where
	switch {
	case filter.ID != "":
		if !isValidID(filter.ID) {
			return newsletter.Subscriber{}, newsletter.ErrNotFound
		}
		w.add("id = ?", filter.ID)
	case filter.Email != "":
		w.add("email = ?", filter.Email)
	case filter.Token != "":
		w.add("token = ?", filter.Token)
	default:
		return newsletter.Subscriber{}, newsletter.ErrNotFound
	}

	var row subscriberRow
	q := repo.db.Rebind("SELECT " + subscriberColumns + " FROM newsletter_subscribers" + w.String())
	if err := repo.db.GetContext(ctx, &row, q, w.args...); err != nil {
		return newsletter.Subscriber{}, trapNoRowsErr(err, newsletter.ErrNotFound, "getting subscriber")
	}
	return row.subscriber(), nil
}

func (repo *newsletterRepository) UpdateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	if !isValidID(sub.ID) {
		return newsletter.Subscriber{}, newsletter.ErrNotFound
	}
	var row subscriberRow
	q := repo.db.Rebind(`UPDATE newsletter_subscribers SET name = ?, is_active = ?, updated_at = ?
		WHERE id = ? RETURNING ` + subscriberColumns)
	if err := repo.db.GetContext(ctx, &row, q, sub.Name, sub.IsActive, sub.UpdatedAt.UTC(), sub.ID); err != nil {
		return newsletter.Subscriber{}, trapNoRowsErr(err, newsletter.ErrNotFound, "updating subscriber")
	}
	return row.subscriber(), nil
}

func (repo *newsletterRepository) DeleteSubscribersByID(ctx context.Context, ids ...string) (int, error) {
	return deleteByID(ctx, repo.db, "newsletter_subscribers", ids)
}
