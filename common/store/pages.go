package store

import (
	"context"
	"fmt"

	"github.com/lyzr/patternatlas/common/models"
)

// FirstPage is the cursor value that selects the first page of a listing
const FirstPage = ""

func pageKey(cursor string) string {
	if cursor == FirstPage {
		return firstPageKey
	}
	return cursor
}

func clonePage(p *models.ListPage) *models.ListPage {
	items := make([]models.DiscussionRef, len(p.Items))
	copy(items, p.Items)
	return &models.ListPage{Items: items, PageInfo: p.PageInfo}
}

// GetListPage returns the page of kind that starts after cursor.
// Pass FirstPage for the first page. Pages are fetched once and then served from memory
// until an upsert of a new entity shifts the listing.
func (s *Store) GetListPage(ctx context.Context, kind models.Kind, cursor string) (*models.ListPage, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	key := pageKey(cursor)

	s.mu.Lock()
	s.cursors[kind] = cursor
	cached := s.pages[kind][key]
	s.mu.Unlock()
	s.metrics.CacheLookup(string(kind)+"_page", cached != nil)
	if cached != nil {
		return clonePage(cached), nil
	}

	categoryID, err := s.CategoryID(ctx, s.categories.Name(kind))
	if err != nil {
		return nil, err
	}

	v, err := s.shared(ctx, fmt.Sprintf("page:%s:%s", kind, key), func(ctx context.Context) (any, error) {
		s.setErr("")
		list, err := s.svc.FetchDiscussionList(ctx, categoryID, cursor, s.pageSize)
		if err != nil {
			return nil, s.fail(err, "failed to load %s list", kind)
		}

		page := &models.ListPage{Items: list.Items, PageInfo: list.PageInfo}
		if page.Items == nil {
			page.Items = []models.DiscussionRef{}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.pages[kind][key]; ok {
			return existing, nil
		}
		s.pages[kind][key] = page
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePage(v.(*models.ListPage)), nil
}

// CurrentCursor returns the cursor of the page of kind most recently requested
func (s *Store) CurrentCursor(kind models.Kind) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursors[kind]
}

// spliceFirstPageLocked puts a new entity at the head of the cached first page.
// The page keeps at most pageSize items and every other cached page of kind is
// dropped because its cursor no longer lines up. Callers hold s.mu.
func (s *Store) spliceFirstPageLocked(kind models.Kind, d models.Discussion) {
	pages := s.pages[kind]
	first, ok := pages[firstPageKey]
	if !ok {
		return
	}

	items := make([]models.DiscussionRef, 0, len(first.Items)+1)
	items = append(items, models.DiscussionRef{ID: d.ID, Number: d.Number, Title: d.Title})
	items = append(items, first.Items...)
	if len(items) > s.pageSize {
		items = items[:s.pageSize]
	}

	s.pages[kind] = map[string]*models.ListPage{
		firstPageKey: {Items: items, PageInfo: first.PageInfo},
	}
}
