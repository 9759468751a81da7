package omdb

import (
	"strconv"
	"strings"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

// titleKeywordGenres infers genres from words in a title when the search
// list carries no genre data.
var titleKeywordGenres = []struct {
	keyword string
	genres  []string
}{
	{"action", []string{"action"}},
	{"adventure", []string{"adventure"}},
	{"comedy", []string{"comedy"}},
	{"drama", []string{"drama"}},
	{"horror", []string{"horror"}},
	{"thriller", []string{"thriller"}},
	{"mystery", []string{"mystery"}},
	{"sci-fi", []string{"sci-fi"}},
	{"fantasy", []string{"fantasy"}},
	{"romance", []string{"romance"}},
	{"war", []string{"action", "drama"}},
	{"western", []string{"western", "action"}},
	{"crime", []string{"crime", "thriller"}},
	{"family", []string{"family", "comedy"}},
	{"animation", []string{"animation", "family"}},
	{"documentary", []string{"documentary"}},
	{"biography", []string{"biography", "drama"}},
	{"musical", []string{"musical", "romance"}},
	{"sport", []string{"sport"}},
	{"superhero", []string{"action", "adventure", "fantasy"}},
}

func mediaType(raw string) domain.MediaType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "series", "episode", "tv":
		return domain.MediaTypeTV
	default:
		return domain.MediaTypeMovie
	}
}

func placeholderTitle(mediaType domain.MediaType, id string) string {
	if mediaType == domain.MediaTypeTV {
		return "Show " + id
	}
	return "Movie " + id
}

// InferGenres returns the genres suggested by keywords in the title, in
// table order without duplicates, or the type defaults when none match.
func InferGenres(title string, mediaType domain.MediaType) []string {
	lower := strings.ToLower(title)
	seen := make(map[string]struct{})
	var genres []string
	for _, entry := range titleKeywordGenres {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		for _, genre := range entry.genres {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}
	if len(genres) > 0 {
		return genres
	}
	if mediaType == domain.MediaTypeTV {
		return []string{"drama", "series"}
	}
	return []string{"drama", "movie"}
}

func genreList(parentID string, names []string) []domain.Genre {
	genres := make([]domain.Genre, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == common.NotAvailable {
			continue
		}
		genres = append(genres, domain.Genre{ID: common.ChildID(parentID, "genre", len(genres)), Name: name})
	}
	return genres
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == common.NotAvailable {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// NormalizeSearchRecord maps one search entry. Title priority: Title,
// then "Movie {imdbID}" or "Show {imdbID}", then "Untitled {index+1}".
func NormalizeSearchRecord(record *SearchRecord, index int) (domain.MediaItem, bool) {
	if record == nil {
		return domain.MediaItem{}, false
	}
	kind := mediaType(record.Type)
	year, hasYear := common.LeadingYear(record.Year)

	id := common.FirstNonEmpty(record.IMDbID)
	if id == "" {
		yearKey := ""
		if hasYear {
			yearKey = strconv.Itoa(year)
		}
		id = common.SyntheticID("omdb-"+string(kind), index, record.Title, yearKey)
	}

	title := common.FirstNonEmpty(record.Title)
	switch {
	case title != "":
	case common.FirstNonEmpty(record.IMDbID) != "":
		title = placeholderTitle(kind, record.IMDbID)
	default:
		title = "Untitled " + strconv.Itoa(index+1)
	}

	item := domain.MediaItem{
		ID:        id,
		Title:     title,
		PosterURL: common.StringPtr(record.Poster),
		Type:      kind,
		Genres:    genreList(id, InferGenres(common.FirstNonEmpty(record.Title), kind)),
		Cast:      []domain.CastMember{},
		Source:    providerName,
	}
	if hasYear {
		item.Year = common.IntPtr(year)
	}
	return item, true
}

// NormalizeSearchResponse maps a whole search page.
func NormalizeSearchResponse(response SearchResponse) domain.ProviderPage {
	items := make([]domain.MediaItem, 0, len(response.Search))
	for index := range response.Search {
		item, ok := NormalizeSearchRecord(&response.Search[index], index)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return domain.ProviderPage{
		Items:        items,
		TotalResults: common.ParseGroupedInt(response.TotalResults),
	}
}

// FormatSearchPage builds the display envelope for one OMDb search page.
// An empty search list yields page 1 with zero totals.
func FormatSearchPage(response SearchResponse, page int) domain.MediaPage {
	if len(response.Search) == 0 {
		return domain.EmptyMediaPage(1)
	}
	normalized := NormalizeSearchResponse(response)
	if page < 1 {
		page = 1
	}
	total := normalized.TotalResults
	return domain.MediaPage{
		Page:                 page,
		Results:              normalized.Items,
		TotalPages:           (total + PageSize - 1) / PageSize,
		TotalResults:         total,
		UpstreamTotalResults: total,
	}
}

// NormalizeTitle maps a full id lookup into a detailed MediaItem.
func NormalizeTitle(record *TitleRecord) (domain.MediaItem, bool) {
	if record == nil {
		return domain.MediaItem{}, false
	}
	kind := mediaType(record.Type)
	year, hasYear := common.LeadingYear(record.Year)
	yearKey := ""
	if hasYear {
		yearKey = strconv.Itoa(year)
	}

	id := common.FirstNonEmpty(record.IMDbID)
	if id == "" {
		id = common.SyntheticID("omdb-"+string(kind), 0, record.Title, yearKey)
	}
	title := common.FirstNonEmpty(record.Title)
	if title == "" {
		title = placeholderTitle(kind, id)
	}

	actors := splitList(record.Actors)
	cast := make([]domain.CastMember, 0, len(actors))
	for index, name := range actors {
		cast = append(cast, domain.CastMember{ID: common.ChildID(id, "cast", index), Name: name})
	}

	poster := common.StringPtr(record.Poster)
	status := "Unknown"
	if common.FirstNonEmpty(record.Released) != "" {
		status = "Released"
	}

	item := domain.MediaItem{
		ID:           id,
		Title:        title,
		Overview:     common.FirstNonEmpty(record.Plot),
		PosterURL:    poster,
		BackdropURL:  poster,
		ReleaseDate:  common.StringPtr(common.ISODate(record.Released)),
		Type:         kind,
		Genres:       genreList(id, splitList(record.Genre)),
		Cast:         cast,
		Runtime:      common.ParseLeadingInt(common.FirstNonEmpty(record.Runtime)),
		VoteAverage:  common.ParseFloat(record.IMDbRating),
		VoteCount:    common.ParseGroupedInt(record.IMDbVotes),
		Director:     common.FirstNonEmpty(record.Director),
		Writer:       common.FirstNonEmpty(record.Writer),
		Language:     common.FirstNonEmpty(record.Language),
		Country:      common.FirstNonEmpty(record.Country),
		Awards:       common.FirstNonEmpty(record.Awards),
		Production:   common.FirstNonEmpty(record.Production),
		Rated:        common.FirstNonEmpty(record.Rated),
		IMDbID:       common.FirstNonEmpty(record.IMDbID),
		Status:       status,
		TotalSeasons: common.ParseGroupedInt(record.TotalSeasons),
		Source:       providerName,
	}
	if hasYear {
		item.Year = common.IntPtr(year)
	}
	return item, true
}

// FallbackTitle is served when an id lookup fails so clients always get
// a renderable record.
func FallbackTitle(id string) domain.MediaItem {
	return domain.PlaceholderMovie(id)
}
