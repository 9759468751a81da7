package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/domain/ports"
	"mediahub/discoveryservice/internal/metrics"
)

// AddFavorite saves an item for a user. The store enforces uniqueness of
// (user, item, category), so concurrent adds of the same item yield one
// entry and domain.ErrAlreadyExists for the rest.
type AddFavorite struct {
	Repo  ports.FavoriteRepository
	Now   func() time.Time
	NewID func() string
}

type AddFavoriteInput struct {
	UserID   string
	Category string
	Item     map[string]any
}

func (uc AddFavorite) Execute(ctx context.Context, input AddFavoriteInput) (domain.FavoriteEntry, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return domain.FavoriteEntry{}, ErrMissingUser
	}
	category, ok := domain.ParseCategory(input.Category)
	if !ok {
		return domain.FavoriteEntry{}, ErrInvalidCategory
	}
	itemID, ok := ItemID(input.Item)
	if !ok {
		return domain.FavoriteEntry{}, ErrInvalidItem
	}

	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	newID := uuid.NewString
	if uc.NewID != nil {
		newID = uc.NewID
	}

	entry := domain.FavoriteEntry{
		ID:       newID(),
		UserID:   userID,
		ItemID:   itemID,
		Category: category,
		Item:     StripEmpty(input.Item),
		AddedAt:  now().UTC(),
	}
	if err := uc.Repo.Insert(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			recordFavorite("add", "duplicate")
			return domain.FavoriteEntry{}, domain.ErrAlreadyExists
		}
		recordFavorite("add", "error")
		return domain.FavoriteEntry{}, wrapRepo(err)
	}
	recordFavorite("add", "ok")
	return entry, nil
}

type RemoveFavorite struct {
	Repo ports.FavoriteRepository
}

func (uc RemoveFavorite) Execute(ctx context.Context, userID, itemID, rawCategory string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMissingUser
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrMissingItemID
	}
	category, ok := domain.ParseCategory(rawCategory)
	if !ok {
		return ErrInvalidCategory
	}
	if err := uc.Repo.Delete(ctx, userID, itemID, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			recordFavorite("remove", "not_found")
			return domain.ErrNotFound
		}
		recordFavorite("remove", "error")
		return wrapRepo(err)
	}
	recordFavorite("remove", "ok")
	return nil
}

type ListFavorites struct {
	Repo ports.FavoriteRepository
}

// Execute returns the user's entries newest first. Without a category the
// entries are grouped; with one, only that category is listed.
func (uc ListFavorites) Execute(ctx context.Context, userID, rawCategory string) (domain.FavoriteList, []domain.FavoriteEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.NewFavoriteList(), nil, ErrMissingUser
	}

	filter := domain.FavoriteFilter{UserID: userID}
	grouped := true
	if raw := strings.TrimSpace(rawCategory); raw != "" && !strings.EqualFold(raw, "all") {
		category, ok := domain.ParseCategory(raw)
		if !ok {
			return domain.NewFavoriteList(), nil, ErrInvalidCategory
		}
		filter.Category = category
		grouped = false
	}

	entries, err := uc.Repo.List(ctx, filter)
	if err != nil {
		recordFavorite("list", "error")
		return domain.NewFavoriteList(), nil, wrapRepo(err)
	}
	recordFavorite("list", "ok")

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	if !grouped {
		if entries == nil {
			entries = []domain.FavoriteEntry{}
		}
		return domain.FavoriteList{}, entries, nil
	}

	list := domain.NewFavoriteList()
	for _, entry := range entries {
		list.Add(entry)
	}
	return list, nil, nil
}

type CheckFavorite struct {
	Repo ports.FavoriteRepository
}

// Execute reports whether the item is saved. Repository failures read as
// not saved.
func (uc CheckFavorite) Execute(ctx context.Context, userID, itemID, rawCategory string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrMissingUser
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return false, ErrMissingItemID
	}
	category, ok := domain.ParseCategory(rawCategory)
	if !ok {
		return false, ErrInvalidCategory
	}
	exists, err := uc.Repo.Exists(ctx, userID, itemID, category)
	if err != nil {
		recordFavorite("check", "error")
		slog.Warn("favorite check failed",
			slog.String("itemId", itemID),
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	recordFavorite("check", "ok")
	return exists, nil
}

// ItemID reads the item's id. Numeric ids are formatted without a
// fractional part.
func ItemID(item map[string]any) (string, bool) {
	if item == nil {
		return "", false
	}
	switch value := item["id"].(type) {
	case string:
		value = strings.TrimSpace(value)
		return value, value != ""
	case json.Number:
		return value.String(), value.String() != ""
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int:
		return strconv.Itoa(value), true
	case int64:
		return strconv.FormatInt(value, 10), true
	default:
		return "", false
	}
}

// StripEmpty returns a copy of item without null values. Nested objects
// left empty by the cleanup are dropped; arrays are kept as they are.
func StripEmpty(item map[string]any) map[string]any {
	cleaned := make(map[string]any, len(item))
	for key, value := range item {
		switch typed := value.(type) {
		case nil:
			continue
		case map[string]any:
			nested := StripEmpty(typed)
			if len(nested) > 0 {
				cleaned[key] = nested
			}
		default:
			cleaned[key] = value
		}
	}
	return cleaned
}

func recordFavorite(operation, outcome string) {
	metrics.FavoritesOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
