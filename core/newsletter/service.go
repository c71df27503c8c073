package newsletter

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
)

var (
	// errors
	ErrNotFound          = errors.New("subscriber not found")
	ErrAlreadySubscribed = errors.New("this email is already subscribed")

	NowFunc = time.Now // mockable

	// orderable columns
	OrderingFields = []string{"email", "name", "is_active", "created_at", "updated_at"}
)

type (
	Repository interface {
		CreateSubscriber(ctx context.Context, sub Subscriber) (Subscriber, error)
		// QuerySubscribers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Email or Name.
		QuerySubscribers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subscriber, error)
		GetSubscriber(ctx context.Context, filter GetFilter) (Subscriber, error)
		UpdateSubscriber(ctx context.Context, sub Subscriber) (Subscriber, error)
		DeleteSubscribersByID(ctx context.Context, ids ...string) (int, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func newToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Subscribe registers a validated NewSubscriber and sends the welcome email.
// Inactive subscribers are reactivated; active ones get a validation error.
func (svc *Service) Subscribe(ctx context.Context, ns NewSubscriber) (Subscriber, error) {
	now := NowFunc().UTC()

	sub, err := svc.repo.GetSubscriber(ctx, GetFilter{Email: ns.Email})
	switch errors.Cause(err) {
	case nil:
		if sub.IsActive {
			return Subscriber{}, core.NewFieldValidationError("email", ErrAlreadySubscribed)
		}
		sub.IsActive = true
		if ns.Name != "" {
			sub.Name = ns.Name
		}
		sub.UpdatedAt = now
		if sub, err = svc.repo.UpdateSubscriber(ctx, sub); err != nil {
			return Subscriber{}, err
		}
	case ErrNotFound:
		sub = Subscriber{
			Email:     ns.Email,
			Name:      ns.Name,
			IsActive:  true,
			Token:     newToken(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if sub, err = svc.repo.CreateSubscriber(ctx, sub); err != nil {
			return Subscriber{}, err
		}
	default:
		return Subscriber{}, errors.Wrap(err, "getting subscriber")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: sub.Name, Address: sub.Email}},
		Subject:      "Welcome to our newsletter",
		TemplateName: "newsletter_welcome",
		TemplateData: sub,
	})
	return sub, nil
}

// Unsubscribe deactivates the subscriber owning `token`. Unsubscribing twice is not an error.
func (svc *Service) Unsubscribe(ctx context.Context, token string) (Subscriber, error) {
	token = core.CleanString(token)
	if token == "" {
		return Subscriber{}, ErrNotFound
	}
	sub, err := svc.repo.GetSubscriber(ctx, GetFilter{Token: token})
	if err != nil {
		return Subscriber{}, err
	}
	if !sub.IsActive {
		return sub, nil
	}
	sub.IsActive = false
	sub.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateSubscriber(ctx, sub)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subscriber, error) {
	return svc.repo.QuerySubscribers(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
}

func (svc *Service) Get(ctx context.Context, id string) (Subscriber, error) {
	return svc.repo.GetSubscriber(ctx, GetFilter{ID: id})
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteSubscribersByID(ctx, ids...)
	return err
}
