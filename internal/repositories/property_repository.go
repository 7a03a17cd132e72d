package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/ps-vitor/landscraper/internal/domain"
)

// ListingRepository stores listing rows for a single source. Stores are
// append-only: Save never rewrites or deduplicates earlier rows.
type ListingRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, records []domain.Record) error
	FindAll(ctx context.Context) ([]domain.Row, error)
}

// Multi writes to a primary repository and any number of mirrors. Reads
// come from the primary.
type Multi struct {
	primary ListingRepository
	mirrors []ListingRepository
}

func NewMulti(primary ListingRepository, mirrors ...ListingRepository) *Multi {
	return &Multi{primary: primary, mirrors: mirrors}
}

func (m *Multi) EnsureSchema(ctx context.Context) error {
	return m.each(func(r ListingRepository) error { return r.EnsureSchema(ctx) })
}

func (m *Multi) Save(ctx context.Context, records []domain.Record) error {
	return m.each(func(r ListingRepository) error { return r.Save(ctx, records) })
}

func (m *Multi) FindAll(ctx context.Context) ([]domain.Row, error) {
	return m.primary.FindAll(ctx)
}

func (m *Multi) each(fn func(ListingRepository) error) error {
	if err := fn(m.primary); err != nil {
		return err
	}
	var errs []error
	for i, r := range m.mirrors {
		if err := fn(r); err != nil {
			errs = append(errs, fmt.Errorf("mirror %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
