package service

import (
	"context"
	"fmt"
	"strings"

	"restaurant-ordering/internal/domain"
)

type MenuServiceInterface interface {
	Categories(ctx context.Context) []string
	Items(ctx context.Context, category string) ([]domain.MenuItem, error)
	Search(ctx context.Context, query string) []domain.MenuItem
	Filter(ctx context.Context, tags []string) ([]domain.MenuItem, error)
	Preferences(ctx context.Context) []string
	ByPreference(ctx context.Context, pref string) ([]domain.MenuItem, error)
}

type MenuService struct {
	catalog *domain.Catalog
}

func NewMenuService(catalog *domain.Catalog) *MenuService {
	return &MenuService{catalog: catalog}
}

func (s *MenuService) Categories(_ context.Context) []string { return s.catalog.Categories() }

func (s *MenuService) Items(_ context.Context, category string) ([]domain.MenuItem, error) {
	return s.catalog.Items(category)
}

func (s *MenuService) Search(_ context.Context, query string) []domain.MenuItem {
	return s.catalog.Search(query)
}

// Filter needs at least one tag; blank tags are ignored.
func (s *MenuService) Filter(_ context.Context, tags []string) ([]domain.MenuItem, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: at least one tag is required", domain.ErrInvalidInput)
	}
	return s.catalog.Filter(clean...), nil
}

func (s *MenuService) Preferences(_ context.Context) []string {
	return append([]string(nil), domain.DietaryPreferences...)
}

func (s *MenuService) ByPreference(_ context.Context, pref string) ([]domain.MenuItem, error) {
	return s.catalog.ByPreference(pref)
}
