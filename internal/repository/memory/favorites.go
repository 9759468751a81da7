package memory

import (
	"context"
	"sort"
	"sync"

	"mediahub/discoveryservice/internal/domain"
)

// FavoriteRepository keeps favorites in process memory. It is used when no
// MongoDB URI is configured; entries are lost on restart.
type FavoriteRepository struct {
	mu      sync.RWMutex
	entries map[favoriteKey]domain.FavoriteEntry
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{entries: make(map[favoriteKey]domain.FavoriteEntry)}
}

type favoriteKey struct {
	user     string
	item     string
	category domain.Category
}

func keyOf(userID, itemID string, category domain.Category) favoriteKey {
	return favoriteKey{user: userID, item: itemID, category: category}
}

func (r *FavoriteRepository) Insert(ctx context.Context, entry domain.FavoriteEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := keyOf(entry.UserID, entry.ItemID, entry.Category)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return domain.ErrAlreadyExists
	}
	entry.Item = cloneDocument(entry.Item)
	r.entries[key] = entry
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, itemID string, category domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := keyOf(userID, itemID, category)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; !exists {
		return domain.ErrNotFound
	}
	delete(r.entries, key)
	return nil
}

func (r *FavoriteRepository) List(ctx context.Context, filter domain.FavoriteFilter) ([]domain.FavoriteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]domain.FavoriteEntry, 0)
	for _, entry := range r.entries {
		if entry.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && entry.Category != filter.Category {
			continue
		}
		entry.Item = cloneDocument(entry.Item)
		out = append(out, entry)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, itemID string, category domain.Category) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	_, exists := r.entries[keyOf(userID, itemID, category)]
	r.mu.RUnlock()
	return exists, nil
}

func cloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneDocument(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
