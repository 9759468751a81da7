package ports

import (
	"context"

	"mediahub/discoveryservice/internal/domain"
)

// FavoriteRepository persists favorite entries. Insert reports
// domain.ErrAlreadyExists for a duplicate (user, item, category) and
// Delete reports domain.ErrNotFound when nothing matched.
type FavoriteRepository interface {
	Insert(ctx context.Context, entry domain.FavoriteEntry) error
	Delete(ctx context.Context, userID, itemID string, category domain.Category) error
	List(ctx context.Context, filter domain.FavoriteFilter) ([]domain.FavoriteEntry, error)
	Exists(ctx context.Context, userID, itemID string, category domain.Category) (bool, error)
}
