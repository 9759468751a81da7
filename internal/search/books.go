package search

import (
	"context"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

const bookListLimit = 20

func emptyBookPage() domain.BookPage {
	return domain.BookPage{Books: []domain.BookItem{}, Page: 1, Limit: bookListLimit}
}

func (s *Service) bookList(ctx context.Context, operation string, fetch func(ctx context.Context) (domain.BookPage, error)) (domain.BookPage, error) {
	if s.books == nil {
		return emptyBookPage(), ErrNotConfigured
	}
	page, err := callValue(ctx, s, bookProvider, operation, fetch)
	if err != nil {
		logDegraded(bookProvider, operation, err)
		return emptyBookPage(), nil
	}
	if page.Books == nil {
		page.Books = []domain.BookItem{}
	}
	return page, nil
}

func (s *Service) TrendingBooks(ctx context.Context) (domain.BookPage, error) {
	if s.books == nil {
		return emptyBookPage(), ErrNotConfigured
	}
	return s.bookList(ctx, "trending", s.books.Trending)
}

func (s *Service) PopularBooks(ctx context.Context) (domain.BookPage, error) {
	if s.books == nil {
		return emptyBookPage(), ErrNotConfigured
	}
	return s.bookList(ctx, "popular", s.books.Popular)
}

func (s *Service) SearchBooks(ctx context.Context, query string) (domain.BookPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyBookPage(), ErrMissingQuery
	}
	if s.books == nil {
		return emptyBookPage(), ErrNotConfigured
	}
	return s.bookList(ctx, "search", func(ctx context.Context) (domain.BookPage, error) {
		return s.books.Search(ctx, query)
	})
}

// BookGenres is served from the static list and never calls upstream.
func (s *Service) BookGenres() []domain.BookGenre {
	if s.books == nil {
		return []domain.BookGenre{}
	}
	return s.books.Genres()
}

func (s *Service) Book(ctx context.Context, id string) (domain.BookItem, error) {
	if s.books == nil {
		return domain.BookItem{}, ErrNotConfigured
	}
	book, err := callValue(ctx, s, bookProvider, "book", func(ctx context.Context) (domain.BookItem, error) {
		return s.books.Book(ctx, id)
	})
	if err != nil {
		return domain.BookItem{}, detailError(bookProvider, err)
	}
	return book, nil
}
