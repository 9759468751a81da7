package openlibrary

import (
	"context"
	"slices"

	"mediahub/discoveryservice/internal/domain"
)

// ListLimit is the number of books every list endpoint returns.
const ListLimit = 20

var genres = []domain.BookGenre{
	{ID: "all", Name: "All Genres"},
	{ID: "fiction", Name: "Fiction"},
	{ID: "nonfiction", Name: "Non-Fiction"},
	{ID: "mystery", Name: "Mystery"},
	{ID: "romance", Name: "Romance"},
	{ID: "science-fiction", Name: "Science Fiction"},
	{ID: "fantasy", Name: "Fantasy"},
	{ID: "biography", Name: "Biography"},
	{ID: "history", Name: "History"},
	{ID: "self-help", Name: "Self-Help"},
	{ID: "business", Name: "Business"},
	{ID: "education", Name: "Education"},
	{ID: "religion", Name: "Religion"},
	{ID: "art", Name: "Art"},
	{ID: "travel", Name: "Travel"},
	{ID: "food", Name: "Food & Cooking"},
	{ID: "health", Name: "Health & Wellness"},
	{ID: "sports", Name: "Sports"},
	{ID: "technology", Name: "Technology"},
	{ID: "politics", Name: "Politics"},
}

// Genres returns the static genre list.
func Genres() []domain.BookGenre {
	return slices.Clone(genres)
}

// Trending returns recent full-text fiction, newest first.
func (c *Client) Trending(ctx context.Context) (domain.BookPage, error) {
	return c.list(ctx, "subject:fiction", true)
}

// Popular returns recent full-text "best books", newest first.
func (c *Client) Popular(ctx context.Context) (domain.BookPage, error) {
	return c.list(ctx, "subject:best books", true)
}

// Search returns the first page of relevance ordered hits.
func (c *Client) Search(ctx context.Context, query string) (domain.BookPage, error) {
	response, err := c.SearchDocs(ctx, query, "", false)
	if err != nil {
		return emptyPage(), err
	}
	return c.page(response.Docs, false), nil
}

func (c *Client) Book(ctx context.Context, id string) (domain.BookItem, error) {
	work, err := c.Work(ctx, id)
	if err != nil {
		return domain.BookItem{}, err
	}
	item, _ := c.NormalizeWork(id, &work)
	return item, nil
}

func (c *Client) list(ctx context.Context, query string, fullText bool) (domain.BookPage, error) {
	response, err := c.SearchDocs(ctx, query, "first_publish_date desc", fullText)
	if err != nil {
		return emptyPage(), err
	}
	return c.page(response.Docs, true), nil
}

func (c *Client) page(docs []Doc, newestFirst bool) domain.BookPage {
	books := make([]domain.BookItem, 0, len(docs))
	for index := range docs {
		if book, ok := c.NormalizeDoc(&docs[index], index); ok {
			books = append(books, book)
		}
	}
	if newestFirst {
		// Unknown years carry Value 0 and sort last.
		slices.SortStableFunc(books, func(a, b domain.BookItem) int {
			return b.Year.Value - a.Year.Value
		})
	}
	if len(books) > ListLimit {
		books = books[:ListLimit]
	}
	return domain.BookPage{Books: books, Total: len(books), Page: 1, Limit: ListLimit}
}

func emptyPage() domain.BookPage {
	return domain.BookPage{Books: []domain.BookItem{}, Page: 1, Limit: ListLimit}
}

func (c *Client) Genres() []domain.BookGenre {
	return Genres()
}
