package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrRepository      = errors.New("repository error")
	ErrInvalidCategory = errors.New("category must be one of movies, books, songs")
	ErrInvalidItem     = errors.New("item must be an object with an id")
	ErrMissingUser     = errors.New("user is required")
	ErrMissingItemID   = errors.New("itemId is required")
)

func wrapRepo(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrRepository, err)
}
