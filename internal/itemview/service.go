package itemview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/booking"
	"github.com/BDorzho/shareit/internal/comment"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrUserNotFound      = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmptyComment      = apperror.New(apperror.KindInvalidInput, "comment text cannot be empty")
	ErrCommentNotAllowed = apperror.New(apperror.KindInvalidInput, "only users who have finished renting this item can comment on it")
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemReader is the part of the item service the view needs.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
	ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*item.Item, int, error)
}

// BookingHistory is the part of the booking service the view needs.
type BookingHistory interface {
	History(ctx context.Context, itemID string) ([]*booking.Booking, error)
	HasFinished(ctx context.Context, itemID, bookerID string, now time.Time) (bool, error)
}

type Service interface {
	Describe(ctx context.Context, itemID, viewerID string) (*View, error)
	ListOwned(ctx context.Context, ownerID string, from, size int) ([]*View, int, error)
	AddComment(ctx context.Context, itemID, authorID, text string) (*comment.Comment, error)
}

type service struct {
	users    UserChecker
	items    ItemReader
	bookings BookingHistory
	comments comment.Repository
	now      func() time.Time
}

func NewService(users UserChecker, items ItemReader, bookings BookingHistory, comments comment.Repository) Service {
	return &service{
		users:    users,
		items:    items,
		bookings: bookings,
		comments: comments,
		now:      time.Now,
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

func (s *service) describe(ctx context.Context, it *item.Item, viewerID string, now time.Time) (*View, error) {
	comments, err := s.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	v := &View{Item: it, Comments: comments}

	if !auth.OwnerDecision(viewerID, it.OwnerID).Allowed() {
		return v, nil
	}

	history, err := s.bookings.History(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	v.LastBooking, v.NextBooking = Summarize(history, now)
	return v, nil
}

func (s *service) Describe(ctx context.Context, itemID, viewerID string) (*View, error) {
	if err := s.ensureUser(ctx, viewerID); err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, it, viewerID, s.now())
}

// ListOwned describes every item of the owner, as seen by the owner.
func (s *service) ListOwned(ctx context.Context, ownerID string, from, size int) ([]*View, int, error) {
	items, total, err := s.items.ListByOwner(ctx, ownerID, from, size)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	views := make([]*View, 0, len(items))
	for _, it := range items {
		v, err := s.describe(ctx, it, ownerID, now)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, nil
}

// AddComment stores a comment from someone who has a booking of the item that already ended.
func (s *service) AddComment(ctx context.Context, itemID, authorID, text string) (*comment.Comment, error) {
	if err := s.ensureUser(ctx, authorID); err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	finished, err := s.bookings.HasFinished(ctx, itemID, authorID, s.now())
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, ErrCommentNotAllowed
	}

	c := &comment.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "comment added", "comment_id", c.ID, "item_id", itemID, "author_id", authorID)
	return c, nil
}
