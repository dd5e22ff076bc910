package client

import (
	"context"
	"net/url"

	"github.com/turtacn/gem-thermo/pkg/errors"
)

// Health calls GET /healthz.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the table sizes and load state of the served cache.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.get(ctx, "/api/v1/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reaction returns the cache entry of reaction id.
func (c *Client) Reaction(ctx context.Context, id string) (*Reaction, error) {
	if id == "" {
		return nil, errors.InvalidParam("reaction id is required")
	}
	var out Reaction
	if err := c.get(ctx, "/api/v1/reactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compound returns the compound stored under cache key key.
func (c *Client) Compound(ctx context.Context, key string) (*Compound, error) {
	if key == "" {
		return nil, errors.InvalidParam("compound key is required")
	}
	var out Compound
	if err := c.get(ctx, "/api/v1/compounds/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MetaboliteCompound returns the compound a model metabolite belongs to.
func (c *Client) MetaboliteCompound(ctx context.Context, metaboliteID string) (*MetaboliteCompound, error) {
	if metaboliteID == "" {
		return nil, errors.InvalidParam("metabolite id is required")
	}
	var out MetaboliteCompound
	if err := c.get(ctx, "/api/v1/metabolites/"+url.PathEscape(metaboliteID)+"/compound", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindMetabolites returns the sorted metabolite ids whose compound matches
// query by KEGG, ChEBI, MetaNetX or BiGG identifier, or by name.
func (c *Client) FindMetabolites(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, errors.InvalidParam("query is required")
	}
	var out metaboliteSearch
	if err := c.get(ctx, "/api/v1/metabolites", url.Values{"query": {query}}, &out); err != nil {
		return nil, err
	}
	if out.Metabolites == nil {
		out.Metabolites = []string{}
	}
	return out.Metabolites, nil
}

//Personal.AI order the ending
