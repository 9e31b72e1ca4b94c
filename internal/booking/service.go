package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/pkg/request"
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemGetter looks up the item a booking refers to.
type ItemGetter interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type CreateRequest struct {
	BookerID  string
	ItemID    string
	StartTime time.Time
	EndTime   time.Time
}

type ListRequest struct {
	State State
	From  int
	Size  int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Decide(ctx context.Context, actorID, bookingID string, approve bool) (*Booking, error)
	Get(ctx context.Context, actorID, bookingID string) (*Booking, error)
	ListForBooker(ctx context.Context, bookerID string, req ListRequest) ([]*Booking, int, error)
	ListForOwner(ctx context.Context, ownerID string, req ListRequest) ([]*Booking, int, error)

	History(ctx context.Context, itemID string) ([]*Booking, error)
	HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
}

type service struct {
	repo  Repository
	users UserChecker
	items ItemGetter
	now   func() time.Time
}

func NewService(repo Repository, users UserChecker, items ItemGetter) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		now:   time.Now,
	}
}

func (s *service) ensureUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if err := s.ensureUser(ctx, req.BookerID); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil && !errors.Is(err, item.ErrNotFound) {
		return nil, fmt.Errorf("get item: %w", err)
	}

	// Everything but the overlap rule can be decided without the lock.
	if err := CheckAvailability(it, req.BookerID, req.StartTime, req.EndTime, nil); err != nil {
		return nil, err
	}

	var created *Booking
	err = s.repo.InItemLock(ctx, it.ID, func(repo Repository) error {
		existing, err := repo.ListByItem(ctx, it.ID)
		if err != nil {
			return err
		}
		if err := CheckAvailability(it, req.BookerID, req.StartTime, req.EndTime, existing); err != nil {
			return err
		}

		b := &Booking{
			ItemID:    it.ID,
			BookerID:  req.BookerID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    StatusWaiting,
		}
		if err := repo.Create(ctx, b); err != nil {
			return err
		}

		created, err = repo.GetByID(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", created.ID,
		"item_id", created.ItemID,
		"booker_id", created.BookerID,
	)
	return created, nil
}

func (s *service) Decide(ctx context.Context, actorID, bookingID string, approve bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !auth.OwnerDecision(actorID, b.ItemOwnerID).Allowed() {
		return nil, ErrNotOwner
	}

	var decided *Booking
	err = s.repo.InItemLock(ctx, b.ItemID, func(repo Repository) error {
		// Re-read under the lock so concurrent decisions see each other.
		current, err := repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		next, err := Transition(current.Status, approve)
		if err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, current.ID, next); err != nil {
			return err
		}

		decided, err = repo.GetByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking decided",
		"booking_id", decided.ID,
		"item_id", decided.ItemID,
		"status", decided.Status,
	)
	return decided, nil
}

func (s *service) Get(ctx context.Context, actorID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !auth.PartyDecision(actorID, b.BookerID, b.ItemOwnerID).Allowed() {
		return nil, ErrNotAuthorized
	}
	return b, nil
}

func (s *service) listQuery(req ListRequest) (ListQuery, error) {
	if req.From < 0 || req.Size < 0 || req.Size > 100 {
		return ListQuery{}, ErrInvalidPage
	}
	size := req.Size
	if size == 0 {
		size = request.DefaultPageSize
	}
	state := req.State
	if state == "" {
		state = StateAll
	}
	return ListQuery{
		Criteria: state.Criteria(s.now()),
		Offset:   req.From,
		Limit:    size,
	}, nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID string, req ListRequest) ([]*Booking, int, error) {
	q, err := s.listQuery(req)
	if err != nil {
		return nil, 0, err
	}
	if err := s.ensureUser(ctx, bookerID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListForBooker(ctx, bookerID, q)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string, req ListRequest) ([]*Booking, int, error) {
	q, err := s.listQuery(req)
	if err != nil {
		return nil, 0, err
	}
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListForOwner(ctx, ownerID, q)
}

func (s *service) History(ctx context.Context, itemID string) ([]*Booking, error) {
	return s.repo.ListByItem(ctx, itemID)
}

func (s *service) HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error) {
	return s.repo.HasFinished(ctx, itemID, bookerID, now)
}
