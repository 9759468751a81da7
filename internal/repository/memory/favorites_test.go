package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mediahub/discoveryservice/internal/domain"
)

func entry(id, user, item string, category domain.Category, addedAt time.Time) domain.FavoriteEntry {
	return domain.FavoriteEntry{
		ID:       id,
		UserID:   user,
		ItemID:   item,
		Category: category,
		Item:     map[string]any{"id": item, "tags": []any{"a"}},
		AddedAt:  addedAt,
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Insert(ctx, entry("1", "u1", "tt1", domain.CategoryMovies, now)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, entry("2", "u1", "tt1", domain.CategoryMovies, now)); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	// Same item id under another category or user is a different entry.
	if err := repo.Insert(ctx, entry("3", "u1", "tt1", domain.CategoryBooks, now)); err != nil {
		t.Fatalf("insert other category: %v", err)
	}
	if err := repo.Insert(ctx, entry("4", "u2", "tt1", domain.CategoryMovies, now)); err != nil {
		t.Fatalf("insert other user: %v", err)
	}
}

func TestSeparatorInIDsDoesNotCollide(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Insert(ctx, entry("1", "u", "i|books|z", domain.CategoryMovies, now)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, entry("2", "u|movies|i", "z", domain.CategoryBooks, now)); err != nil {
		t.Fatalf("expected distinct triple to insert, got %v", err)
	}
	if err := repo.Delete(ctx, "u|movies|i", "z", domain.CategoryBooks); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := repo.Exists(ctx, "u", "i|books|z", domain.CategoryMovies)
	if err != nil || !ok {
		t.Fatalf("expected other user's entry to survive, got %v, %v", ok, err)
	}
}

func TestConcurrentInsertKeepsOneEntry(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(ctx, entry("x", "u1", "42", domain.CategorySongs, time.Now())); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful insert, got %d", successes)
	}
}

func TestListFiltersAndSortsNewestFirst(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_ = repo.Insert(ctx, entry("a", "u1", "tt1", domain.CategoryMovies, base))
	_ = repo.Insert(ctx, entry("b", "u1", "OL1W", domain.CategoryBooks, base.Add(time.Hour)))
	_ = repo.Insert(ctx, entry("c", "u1", "tt2", domain.CategoryMovies, base.Add(2*time.Hour)))
	_ = repo.Insert(ctx, entry("d", "u2", "tt3", domain.CategoryMovies, base))

	all, err := repo.List(ctx, domain.FavoriteFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[1].ID != "b" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}

	movies, err := repo.List(ctx, domain.FavoriteFilter{UserID: "u1", Category: domain.CategoryMovies})
	if err != nil {
		t.Fatalf("list movies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}

	empty, err := repo.List(ctx, domain.FavoriteFilter{UserID: "nobody"})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v, %v", empty, err)
	}
}

func TestListReturnsCopies(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()
	_ = repo.Insert(ctx, entry("a", "u1", "tt1", domain.CategoryMovies, time.Now()))

	first, _ := repo.List(ctx, domain.FavoriteFilter{UserID: "u1"})
	first[0].Item["id"] = "mutated"
	first[0].Item["tags"].([]any)[0] = "mutated"

	second, _ := repo.List(ctx, domain.FavoriteFilter{UserID: "u1"})
	if second[0].Item["id"] != "tt1" || second[0].Item["tags"].([]any)[0] != "a" {
		t.Fatalf("stored entry was mutated: %+v", second[0].Item)
	}
}

func TestDeleteAndExists(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx := context.Background()
	_ = repo.Insert(ctx, entry("a", "u1", "tt1", domain.CategoryMovies, time.Now()))

	ok, err := repo.Exists(ctx, "u1", "tt1", domain.CategoryMovies)
	if err != nil || !ok {
		t.Fatalf("expected entry to exist, got %v, %v", ok, err)
	}
	if err := repo.Delete(ctx, "u1", "tt1", domain.CategoryMovies); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "u1", "tt1", domain.CategoryMovies); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	ok, _ = repo.Exists(ctx, "u1", "tt1", domain.CategoryMovies)
	if ok {
		t.Fatal("expected entry to be gone")
	}
}

func TestCancelledContext(t *testing.T) {
	repo := NewFavoriteRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Insert(ctx, entry("a", "u1", "tt1", domain.CategoryMovies, time.Now())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
