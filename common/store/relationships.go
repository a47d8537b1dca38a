package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/lyzr/patternatlas/common/models"
)

// maxParallelLoads bounds concurrent detail fetches for one relationship list
const maxParallelLoads = 4

// GetRelationships loads every relationship in numbers concurrently and
// returns the valid ones in input order. Not-found and undecodable records are
// skipped. Any other failure fails the whole call.
func (s *Store) GetRelationships(ctx context.Context, numbers []int) ([]*models.Relationship, error) {
	results := make([]*models.Relationship, len(numbers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, number := range numbers {
		g.Go(func() error {
			r, err := s.GetRelationshipByNumber(gctx, number)
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*models.Relationship, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// RelationshipsOf returns the relationships listed on an entity's body
func (s *Store) RelationshipsOf(ctx context.Context, e models.Entity) ([]*models.Relationship, error) {
	return s.GetRelationships(ctx, e.Links())
}
