package inmemdb

import (
	"context"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/newsletter"
)

type newsletterRepository struct {
	db *table[newsletter.Subscriber]
}

var _ newsletter.Repository = (*newsletterRepository)(nil) // interface compliance check

func NewNewsletterRepository(db *DB) newsletter.Repository {
	return &newsletterRepository{db: db.newsletter}
}

func (repo *newsletterRepository) CreateSubscriber(_ context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, s := range repo.db.rows {
		if s.Email == sub.Email {
			return newsletter.Subscriber{}, newsletter.ErrAlreadySubscribed
		}
	}
	sub.ID = newID()
	repo.db.rows[sub.ID] = &sub
	return sub, nil
}

func (repo *newsletterRepository) QuerySubscribers(_ context.Context, filter *newsletter.QueryFilter, ordering []core.DBOrdering) ([]newsletter.Subscriber, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]newsletter.Subscriber, 0, len(repo.db.rows))
	for _, sub := range repo.db.all() {
		if filter != nil {
			if filter.Search != "" && !(containsFold(sub.Email, filter.Search) || containsFold(sub.Name, filter.Search)) {
				continue
			}
			if filter.IsActive != nil && sub.IsActive != *filter.IsActive {
				continue
			}
		}
		subs = append(subs, sub)
	}

	order(subs, ordering, subscriberField, func(a, b newsletter.Subscriber) bool { return a.CreatedAt.After(b.CreatedAt) })
	return subs, nil
}

func subscriberField(sub newsletter.Subscriber, field string) interface{} {
	switch field {
	case "email":
		return sub.Email
	case "name":
		return sub.Name
	case "is_active":
		return sub.IsActive
	case "updated_at":
		return sub.UpdatedAt
	}
	return sub.CreatedAt
}

func (repo *newsletterRepository) GetSubscriber(_ context.Context, filter newsletter.GetFilter) (newsletter.Subscriber, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if filter.ID != "" {
		if sub, ok := repo.db.get(filter.ID); ok {
			return sub, nil
		}
		return newsletter.Subscriber{}, newsletter.ErrNotFound
	}
	for _, sub := range repo.db.rows {
		switch {
		case filter.Email != "":
			if sub.Email == filter.Email {
				return *sub, nil
			}
		case filter.Token != "":
			if sub.Token == filter.Token {
				return *sub, nil
			}
		}
	}
	return newsletter.Subscriber{}, newsletter.ErrNotFound
}

func (repo *newsletterRepository) UpdateSubscriber(_ context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[sub.ID]
	if !ok {
		return newsletter.Subscriber{}, newsletter.ErrNotFound
	}
	orig.Name = sub.Name
	orig.IsActive = sub.IsActive
	orig.UpdatedAt = sub.UpdatedAt
	return *orig, nil
}

func (repo *newsletterRepository) DeleteSubscribersByID(_ context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.db.deleteByID(ids...), nil
}
