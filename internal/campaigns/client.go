package campaigns

import (
	"context"
	"net/http"

	"callcenter-ops/pkg/utils"
)

// Lister fetches the active campaign list. Implemented by Client; the
// Directory wraps any Lister in the retry policy.
type Lister interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
}

// Client reads campaigns from the dashboard backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

func (c *Client) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var list []Campaign
	if err := utils.GetJSON(ctx, c.http, c.baseURL, &list); err != nil {
		return nil, err
	}
	return list, nil
}
