package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/valarz/go-press/internal/content"
)

func ids(result content.ListResult) []int {
	out := make([]int, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, item.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStoreListSortsFeaturedThenNewest(t *testing.T) {
	store, _ := newSeededStore(t)

	result := store.List(context.Background(), content.ListFilter{})
	if result.Total != 4 {
		t.Fatalf("expected 4 articles, got %d", result.Total)
	}
	// 2 is featured; 7 (2024-04-20) and 1 (2024-01-10) follow; 3 has an
	// unparseable date and sorts last.
	if got := ids(result); !equalInts(got, []int{2, 7, 1, 3}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestStoreListFilters(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter content.ListFilter
		want   []int
	}{
		{"category", content.ListFilter{Category: "技术"}, []int{7, 1}},
		{"all category", content.ListFilter{Category: "all"}, []int{2, 7, 1, 3}},
		{"unknown category", content.ListFilter{Category: "nope"}, []int{}},
		{"search title case-insensitive", content.ListFilter{Search: "RUST"}, []int{7}},
		{"search excerpt", content.ListFilter{Search: "channels"}, []int{1}},
		{"search tag", content.ListFilter{Search: "concurrency"}, []int{1}},
		{"search and category", content.ListFilter{Search: "go", Category: "生活"}, []int{3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := store.List(ctx, tc.filter)
			if got := ids(result); !equalInts(got, tc.want) {
				t.Fatalf("List(%+v) = %v, want %v", tc.filter, got, tc.want)
			}
			if result.Total != len(tc.want) {
				t.Fatalf("expected total %d, got %d", len(tc.want), result.Total)
			}
		})
	}
}

func TestStoreListPagination(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		page  int
		limit int
		want  []int
	}{
		{"first page", 1, 3, []int{2, 7, 1}},
		{"second page", 2, 3, []int{3}},
		{"past the end", 3, 3, []int{}},
		{"page zero is first", 0, 2, []int{2, 7}},
		{"negative page is first", -4, 2, []int{2, 7}},
		{"no limit", 5, 0, []int{2, 7, 1, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := store.List(ctx, content.ListFilter{Page: tc.page, Limit: tc.limit})
			if got := ids(result); !equalInts(got, tc.want) {
				t.Fatalf("page %d limit %d = %v, want %v", tc.page, tc.limit, got, tc.want)
			}
			if result.Total != 4 {
				t.Fatalf("total must ignore pagination, got %d", result.Total)
			}
		})
	}
}

func TestStoreListCategories(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	if got := store.ListCategories(ctx, content.CategoryFilter{}); len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	tools := store.ListCategories(ctx, content.CategoryFilter{Type: "tool"})
	if len(tools) != 1 || tools[0].Slug != "json" {
		t.Fatalf("unexpected tool categories %+v", tools)
	}
}

func TestStoreGetBySlugAndAdjacent(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	article, err := store.GetBySlug(ctx, "design-systems")
	if err != nil || article.ID != 2 {
		t.Fatalf("GetBySlug = %+v, %v", article, err)
	}
	if _, err := store.GetBySlug(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Publish order, newest first: 7, 2, 1, 3.
	prev, next, err := store.Adjacent(ctx, "design-systems")
	if err != nil {
		t.Fatalf("Adjacent: %v", err)
	}
	if prev == nil || prev.ID != 7 || next == nil || next.ID != 1 {
		t.Fatalf("unexpected neighbours prev=%+v next=%+v", prev, next)
	}
	prev, next, err = store.Adjacent(ctx, "rust-notes")
	if err != nil || prev != nil || next == nil || next.ID != 2 {
		t.Fatalf("expected no previous article for the newest, got prev=%+v next=%+v err=%v", prev, next, err)
	}
	if _, _, err := store.Adjacent(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreTagCounts(t *testing.T) {
	store, _ := newSeededStore(t)

	counts := store.TagCounts(context.Background())
	want := []content.TagCount{
		{Tag: "go", Count: 2},
		{Tag: "Concurrency", Count: 1},
		{Tag: "design", Count: 1},
		{Tag: "life", Count: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d tags, got %+v", len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("tag %d = %+v, want %+v", i, counts[i], want[i])
		}
	}
}
