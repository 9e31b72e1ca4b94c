package item

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/BDorzho/shareit/internal/auth"
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error)
	Search(ctx context.Context, text string, from, size int) ([]*Item, int, error)
	ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Item, int, error)
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error)
	SetPhoto(ctx context.Context, actorID, itemID, fileID string) error
}

type service struct {
	repo  Repository
	users UserChecker
}

func NewService(repo Repository, users UserChecker) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (s *service) ensureUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check owner exists: %w", err)
	}
	if !ok {
		return ErrOwnerNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailabilityMissing
	}
	if err := s.ensureUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "item created", "item_id", it.ID, "owner_id", it.OwnerID)
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error) {
	if req.Name == nil && req.Description == nil && req.Available == nil {
		return nil, ErrNothingToUpdate
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.OwnerDecision(actorID, it.OwnerID).Allowed() {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Search matches available items by name or description. Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, from, size int) ([]*Item, int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, 0, nil
	}
	return s.repo.Search(ctx, text, from, size)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Item, int, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByOwner(ctx, ownerID, from, size)
}

func (s *service) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error) {
	return s.repo.ListByRequestIDs(ctx, requestIDs)
}

func (s *service) SetPhoto(ctx context.Context, actorID, itemID, fileID string) error {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !auth.OwnerDecision(actorID, it.OwnerID).Allowed() {
		return ErrNotOwner
	}
	return s.repo.SetPhoto(ctx, itemID, fileID)
}
