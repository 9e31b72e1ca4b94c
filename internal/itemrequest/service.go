package itemrequest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BDorzho/shareit/internal/item"
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AnswerLister finds the items created in answer to requests.
type AnswerLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	ListOwn(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID string, from, size int) ([]*ItemRequest, int, error)
	GetByID(ctx context.Context, userID, id string) (*ItemRequest, error)
}

type service struct {
	repo    Repository
	users   UserChecker
	answers AnswerLister
}

func NewService(repo Repository, users UserChecker, answers AnswerLister) Service {
	return &service{
		repo:    repo,
		users:   users,
		answers: answers,
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

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.ensureUser(ctx, requesterID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		RequesterID: requesterID,
		Description: description,
		Items:       []*item.Item{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "item request created", "request_id", req.ID, "requester_id", requesterID)
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, requesterID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.attachAnswers(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) ListOthers(ctx context.Context, userID string, from, size int) ([]*ItemRequest, int, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.ListExcept(ctx, userID, from, size)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachAnswers(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *service) GetByID(ctx context.Context, userID, id string) (*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachAnswers(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// attachAnswers loads the answering items of all requests in one query.
func (s *service) attachAnswers(ctx context.Context, list []*ItemRequest) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, len(list))
	byID := make(map[string]*ItemRequest, len(list))
	for i, req := range list {
		ids[i] = req.ID
		req.Items = []*item.Item{}
		byID[req.ID] = req
	}

	items, err := s.answers.ListByRequestIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list answering items: %w", err)
	}
	for _, it := range items {
		if it.RequestID == nil {
			continue
		}
		if req, ok := byID[*it.RequestID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return nil
}
