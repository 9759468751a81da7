package simkl

import (
	"strconv"
	"strings"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	imageBaseURL = "https://wsrv.nl/?url=https://simkl.in"
	unknownRank  = 9999

	// ListTotalPages and ListTotalResults are the approximate totals
	// reported for list endpoints, which carry no paging metadata.
	ListTotalPages   = 10
	ListTotalResults = 200
)

// ImageURL builds a resized image URL for a Simkl image path. Kind is
// posters, fanart, people or episodes.
func ImageURL(kind, path, suffix string) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	value := imageBaseURL + "/" + kind + "/" + path + suffix + ".webp"
	return &value
}

// NormalizeMovie maps a raw movie payload.
//
// Title: title, movie.title, name, show.title, ids.slug, "Movie {id}".
// Id: ids.simkl, ids.simkl_id, movie_id, synthetic.
func NormalizeMovie(record *Record, index int) (domain.MediaItem, bool) {
	if record == nil {
		return domain.MediaItem{}, false
	}
	data := record
	if record.Movie != nil {
		data = record.Movie
	}
	item := normalizeCommon(record, data, domain.MediaTypeMovie, index, record.MovieID)
	return item, true
}

// NormalizeShow maps a raw show payload, including the show-only extras.
func NormalizeShow(record *Record, index int) (domain.MediaItem, bool) {
	if record == nil {
		return domain.MediaItem{}, false
	}
	data := record
	if record.Show != nil {
		data = record.Show
	}
	item := normalizeCommon(record, data, domain.MediaTypeTV, index, record.ShowID)
	item.Status = common.FirstNonEmpty(data.Status, record.Status)
	item.Network = common.FirstNonEmpty(data.Network, record.Network)
	item.Trailer = common.FirstNonEmpty(data.Trailer.String(), record.Trailer.String())
	item.TotalSeasons = data.TotalSeasons
	item.TotalEpisodes = data.TotalEpisodes
	return item, true
}

// NormalizeSearchResult maps a text search hit by its declared type.
func NormalizeSearchResult(record *Record, index int) (domain.MediaItem, bool) {
	if record == nil {
		return domain.MediaItem{}, false
	}
	if strings.EqualFold(strings.TrimSpace(record.Type), "movie") || (record.Movie != nil && record.Show == nil) {
		return NormalizeMovie(record, index)
	}
	return NormalizeShow(record, index)
}

func normalizeCommon(record, data *Record, kind domain.MediaType, index int, typedID common.FlexString) domain.MediaItem {
	rawTitle := common.FirstNonEmpty(
		data.Title,
		record.Title,
		nestedTitle(record.Movie),
		data.Name,
		nestedTitle(record.Show),
		common.TitleFromSlug(common.FirstNonEmpty(data.IDs.Slug, record.IDs.Slug)),
	)

	year := common.FirstPositive(data.Year, record.Year)
	releaseDate := releaseDate(record, data, year)
	if year == 0 {
		year, _ = common.LeadingYear(releaseDate)
	}

	id := common.FirstNonEmpty(
		record.IDs.Simkl.String(),
		data.IDs.Simkl.String(),
		record.IDs.SimklID.String(),
		data.IDs.SimklID.String(),
		typedID.String(),
	)
	if id == "" {
		yearKey := ""
		if year > 0 {
			yearKey = strconv.Itoa(year)
		}
		id = common.SyntheticID("simkl-"+string(kind), index, rawTitle, yearKey)
	}

	title := rawTitle
	if title == "" {
		title = placeholderTitle(kind, id)
	}

	item := domain.MediaItem{
		ID:          id,
		Title:       title,
		Overview:    common.FirstNonEmpty(data.Overview, record.Overview, data.Description, record.Description),
		PosterURL:   ImageURL("posters", posterPath(record, data), "_c"),
		BackdropURL: ImageURL("fanart", fanartPath(record, data), "_medium"),
		ReleaseDate: common.StringPtr(releaseDate),
		Year:        common.IntPtr(year),
		Type:        kind,
		Genres:      genreList(id, data.Genres),
		Cast:        castList(id, data.Cast),
		Runtime:     common.FirstPositive(common.ParseLeadingInt(data.Runtime.String()), common.ParseLeadingInt(record.Runtime.String())),
		IMDbID:      common.FirstNonEmpty(data.IDs.IMDb, record.IDs.IMDb),
		Rank:        unknownRank,
		Source:      providerName,
	}
	if rating := pickRating(record, data); rating != nil {
		item.VoteAverage = rating.Rating
		item.VoteCount = rating.Votes
		if rating.Rank > 0 {
			item.Rank = rating.Rank
		}
	}
	return item
}

func nestedTitle(record *Record) string {
	if record == nil {
		return ""
	}
	return record.Title
}

func placeholderTitle(kind domain.MediaType, id string) string {
	if kind == domain.MediaTypeTV {
		return "Show " + id
	}
	return "Movie " + id
}

// releaseDate resolves released, first_aired, {year}-01-01, date in that
// order and returns it as YYYY-MM-DD, or "" when nothing parses.
func releaseDate(record, data *Record, year int) string {
	if value := common.ISODate(common.FirstNonEmpty(data.Released, record.Released)); value != "" {
		return value
	}
	if value := common.ISODate(common.FirstNonEmpty(data.FirstAired, record.FirstAired)); value != "" {
		return value
	}
	if year > 0 {
		return strconv.Itoa(year) + "-01-01"
	}
	return common.ISODate(common.FirstNonEmpty(data.Date, record.Date))
}

func posterPath(record, data *Record) string {
	return common.FirstNonEmpty(data.Poster, record.Poster, imagesPoster(data.Images), imagesPoster(record.Images))
}

func fanartPath(record, data *Record) string {
	return common.FirstNonEmpty(data.Fanart, record.Fanart, imagesFanart(data.Images), imagesFanart(record.Images))
}

func imagesPoster(images *Images) string {
	if images == nil {
		return ""
	}
	return images.Poster
}

func imagesFanart(images *Images) string {
	if images == nil {
		return ""
	}
	return images.Fanart
}

func pickRating(record, data *Record) *Rating {
	if data.Ratings != nil && data.Ratings.Simkl != nil {
		return data.Ratings.Simkl
	}
	if record.Ratings != nil && record.Ratings.Simkl != nil {
		return record.Ratings.Simkl
	}
	return nil
}

func genreList(parentID string, names Genres) []domain.Genre {
	genres := make([]domain.Genre, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		genres = append(genres, domain.Genre{ID: common.ChildID(parentID, "genre", len(genres)), Name: name})
	}
	return genres
}

func castList(parentID string, people []Person) []domain.CastMember {
	cast := make([]domain.CastMember, 0, len(people))
	for index, person := range people {
		name := common.FirstNonEmpty(person.Name)
		if name == "" {
			name = "Unknown Actor"
		}
		cast = append(cast, domain.CastMember{
			ID:         common.ChildID(parentID, "cast", index),
			Name:       name,
			Character:  strings.TrimSpace(person.Character),
			ProfileURL: ImageURL("people", person.Image, "_c"),
		})
	}
	return cast
}

// NormalizeEpisode maps one episode of a show.
func NormalizeEpisode(showID string, record *EpisodeRecord, index int) (domain.Episode, bool) {
	if record == nil {
		return domain.Episode{}, false
	}
	id := common.FirstNonEmpty(record.IDs.SimklID.String(), record.IDs.Simkl.String())
	if id == "" {
		id = common.ChildID(showID, "episode", index)
	}
	title := common.FirstNonEmpty(record.Title)
	if title == "" {
		title = "Episode " + strconv.Itoa(record.Episode)
	}
	return domain.Episode{
		ID:       id,
		Season:   record.Season,
		Number:   record.Episode,
		Title:    title,
		Overview: common.FirstNonEmpty(record.Description),
		AirDate:  common.StringPtr(common.ISODate(record.Date)),
		ImageURL: ImageURL("episodes", record.Image, "_w"),
	}, true
}

func normalizeList(records []Record, normalize func(*Record, int) (domain.MediaItem, bool)) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, len(records))
	for index := range records {
		item, ok := normalize(&records[index], index)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}
