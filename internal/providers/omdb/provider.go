package omdb

import (
	"context"

	"mediahub/discoveryservice/internal/domain"
)

// Provider adapts the client to one media type of the title search.
type Provider struct {
	client *Client
	kind   SearchKind
}

func NewMovieProvider(client *Client) *Provider {
	return &Provider{client: client, kind: KindMovie}
}

func NewSeriesProvider(client *Client) *Provider {
	return &Provider{client: client, kind: KindSeries}
}

func (p *Provider) Name() string {
	if p.kind == KindSeries {
		return "omdb-series"
	}
	return "omdb-movies"
}

func (p *Provider) MediaType() domain.MediaType {
	return mediaType(string(p.kind))
}

func (p *Provider) Info() domain.ProviderInfo {
	label := "OMDb movies"
	if p.kind == KindSeries {
		label = "OMDb series"
	}
	return domain.ProviderInfo{
		Name:    p.Name(),
		Label:   label,
		Kind:    string(p.MediaType()),
		Enabled: p.client.Enabled(),
	}
}

func (p *Provider) Search(ctx context.Context, query domain.ProviderQuery) (domain.ProviderPage, error) {
	response, err := p.client.Search(ctx, query.Query, p.kind, query.Page, query.Year)
	if err != nil {
		return domain.ProviderPage{}, err
	}
	return NormalizeSearchResponse(response), nil
}
