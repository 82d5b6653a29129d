package matching

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyPattern  = errors.New("pattern is required")
	ErrEmptyCategory = errors.New("category is required")
	ErrNotFound      = errors.New("rule not found")
)

// Rule assigns Category to any bank description containing Pattern.
type Rule struct {
	ID        int64
	Pattern   string
	Category  string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, rawDescription string) (string, error)
	SaveRule(ctx context.Context, pattern, category string) (*Rule, error)
	ListRules(ctx context.Context) ([]Rule, error)
	DeleteRule(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest pattern contained in
// rawDescription, ignoring case. Returns an empty string if nothing matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, raw)
}

// Learn remembers pattern -> category. Learning an existing pattern again
// replaces its category.
func (s *Service) Learn(ctx context.Context, pattern, category string) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if category == "" {
		return nil, ErrEmptyCategory
	}

	return s.repo.SaveRule(ctx, pattern, category)
}

func (s *Service) Rules(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) Forget(ctx context.Context, id int64) error {
	return s.repo.DeleteRule(ctx, id)
}
