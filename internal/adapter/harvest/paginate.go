package harvest

import (
	"context"

	"harvest-timer/internal/domain"
)

// PageFetcher returns the 1-based page n of a list resource.
type PageFetcher[T any] func(ctx context.Context, n int) (domain.Page[T], error)

// walkPages fetches pages in order until the server-reported last page and
// hands each one to visit. The loop relies on total_pages staying stable.
func walkPages[T any](ctx context.Context, fetch PageFetcher[T], visit func(domain.Page[T])) error {
	for current := 1; ; current++ {
		page, err := fetch(ctx, current)
		if err != nil {
			return err
		}
		visit(page)
		if current >= page.TotalPages {
			return nil
		}
	}
}

// Flatten concatenates the items of every page in server order.
func Flatten[T any](ctx context.Context, fetch PageFetcher[T]) ([]T, error) {
	items := []T{}
	err := walkPages(ctx, fetch, func(p domain.Page[T]) {
		items = append(items, p.Items...)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Pages keeps one page object per fetched page.
func Pages[T any](ctx context.Context, fetch PageFetcher[T]) ([]domain.Page[T], error) {
	var pages []domain.Page[T]
	err := walkPages(ctx, fetch, func(p domain.Page[T]) {
		pages = append(pages, p)
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}
