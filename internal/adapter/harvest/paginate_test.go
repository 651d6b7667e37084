package harvest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvest-timer/internal/domain"
)

func pagedFetcher(pages [][]int, calls *[]int) PageFetcher[int] {
	return func(ctx context.Context, n int) (domain.Page[int], error) {
		*calls = append(*calls, n)
		return domain.Page[int]{
			Items:      pages[n-1],
			Pagination: domain.Pagination{PerPage: 3, TotalPages: len(pages), Page: n},
		}, nil
	}
}

func TestFlatten_ConcatenatesInServerOrder(t *testing.T) {
	var calls []int
	pages := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}

	items, err := Flatten(context.Background(), pagedFetcher(pages, &calls))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, items)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestFlatten_SinglePageFetchesOnce(t *testing.T) {
	var calls []int

	items, err := Flatten(context.Background(), pagedFetcher([][]int{{9}}, &calls))

	require.NoError(t, err)
	assert.Equal(t, []int{9}, items)
	assert.Equal(t, []int{1}, calls)
}

func TestFlatten_EmptyListingStops(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, n int) (domain.Page[int], error) {
		calls++
		return domain.Page[int]{Pagination: domain.Pagination{PerPage: 100, TotalPages: 0, Page: 1}}, nil
	}

	items, err := Flatten(context.Background(), PageFetcher[int](fetch))

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 1, calls)
}

func TestPages_KeepsOnePagePerFetch(t *testing.T) {
	var calls []int

	pages, err := Pages(context.Background(), pagedFetcher([][]int{{1, 2}, {3}}, &calls))

	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, []int{1, 2}, pages[0].Items)
	assert.Equal(t, 2, pages[1].Page)
	assert.Equal(t, []int{3}, pages[1].Items)
}

func TestFlatten_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context, n int) (domain.Page[int], error) {
		calls++
		if n == 2 {
			return domain.Page[int]{}, boom
		}
		return domain.Page[int]{Items: []int{n}, Pagination: domain.Pagination{PerPage: 1, TotalPages: 3, Page: n}}, nil
	}

	items, err := Flatten(context.Background(), PageFetcher[int](fetch))

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, items)
	assert.Equal(t, 2, calls)
}
