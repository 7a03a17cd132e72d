package property

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/repositories"
)

var ErrUnknownSource = errors.New("unknown listing source")

// ListingService reads stored listings back per source.
type ListingService struct {
	repos map[string]repositories.ListingRepository
}

func NewListingService(repos map[string]repositories.ListingRepository) *ListingService {
	return &ListingService{repos: repos}
}

func (s *ListingService) Sources() []string {
	out := make([]string, 0, len(s.repos))
	for name := range s.repos {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *ListingService) FindAll(ctx context.Context, source string) ([]domain.Row, error) {
	repo, ok := s.repos[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return repo.FindAll(ctx)
}
