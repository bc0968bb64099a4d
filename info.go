package oaipmh

import (
	"context"
	"errors"
	"time"
)

// RepositoryInfo is a one-call summary of an endpoint.
type RepositoryInfo struct {
	Endpoint string           `json:"endpoint"`
	Identify *Identify        `json:"id"`
	Formats  []MetadataFormat `json:"formats,omitempty"`
	Sets     []Set            `json:"sets,omitempty"`
	Elapsed  float64          `json:"elapsed"`
}

// AboutEndpoint gathers Identify, metadata formats and sets for the
// configured endpoint. Repositories without a set hierarchy are
// reported with an empty set list rather than an error.
func (c *Client) AboutEndpoint(ctx context.Context) (*RepositoryInfo, error) {
	start := time.Now()
	info := &RepositoryInfo{Endpoint: c.endpoint}

	ident, err := c.Identify(ctx)
	if err != nil {
		return nil, err
	}
	info.Identify = ident

	formats, err := c.ListMetadataFormats(ctx, "")
	if err != nil && !errors.Is(err, ErrNoMetadataFormats) {
		return nil, err
	}
	info.Formats = formats

	sets, err := c.ListSets(ctx).Collect()
	if err != nil && !errors.Is(err, ErrNoSetHierarchy) {
		return nil, err
	}
	info.Sets = sets

	info.Elapsed = time.Since(start).Seconds()
	return info, nil
}
