package openlibrary

import (
	"strings"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	placeholderCover   = "/placeholder.svg"
	unknownTitle       = "Unknown Title"
	unknownAuthor      = "Unknown Author"
	defaultGenre       = "Fiction"
	defaultDescription = "No description available"
)

func workID(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "/works/")
}

// NormalizeDoc maps a search hit.
//
// Description: first_sentence[0], subtitle, "No description available".
// Author: author_name[0], "Unknown Author". Genre: subject[0], "Fiction".
func (c *Client) NormalizeDoc(doc *Doc, index int) (domain.BookItem, bool) {
	if doc == nil {
		return domain.BookItem{}, false
	}
	title := common.FirstNonEmpty(doc.Title)
	author := common.FirstNonEmpty(first(doc.AuthorName))
	id := workID(doc.Key)
	if id == "" {
		id = common.SyntheticID("openlibrary-book", index, title, author)
	}
	return domain.BookItem{
		ID:          id,
		Title:       common.FirstNonEmpty(title, unknownTitle),
		Author:      common.FirstNonEmpty(author, unknownAuthor),
		CoverURL:    c.coverURL(doc.CoverID, "M"),
		Year:        domain.KnownBookYear(doc.FirstPublishYear),
		Genre:       common.FirstNonEmpty(first(doc.Subject), defaultGenre),
		Description: common.FirstNonEmpty(common.CleanHTMLText(doc.FirstSentence.First()), doc.Subtitle, defaultDescription),
	}, true
}

// NormalizeWork maps a work record. Works carry no author names, and the
// year is taken from the record creation date.
func (c *Client) NormalizeWork(id string, work *Work) (domain.BookItem, bool) {
	if work == nil {
		return domain.BookItem{}, false
	}
	id = common.FirstNonEmpty(id, workID(work.Key))
	coverID := 0
	if len(work.Covers) > 0 {
		coverID = work.Covers[0]
	}
	covers := make([]string, 0, len(work.Covers))
	for _, cover := range work.Covers {
		if cover > 0 {
			covers = append(covers, c.coverURL(cover, "L"))
		}
	}
	year := 0
	if work.Created != nil {
		year, _ = common.LeadingYear(work.Created.Value)
	}
	return domain.BookItem{
		ID:          id,
		Title:       common.FirstNonEmpty(work.Title, unknownTitle),
		Author:      unknownAuthor,
		CoverURL:    c.coverURL(coverID, "L"),
		Year:        domain.KnownBookYear(year),
		Genre:       common.FirstNonEmpty(first(work.Subjects), defaultGenre),
		Description: common.FirstNonEmpty(common.CleanHTMLText(work.Description.First()), defaultDescription),
		Subjects:    work.Subjects,
		Covers:      covers,
	}, true
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
