package numbers

import (
	"context"
	"net/http"

	"callcenter-ops/pkg/utils"
)

// Inventory lists phone numbers from the dashboard backend.
type Inventory interface {
	ListNumbers(ctx context.Context) ([]Number, error)
}

// Client reads the number inventory endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

func (c *Client) ListNumbers(ctx context.Context) ([]Number, error) {
	var list []Number
	if err := utils.GetJSON(ctx, c.http, c.baseURL, &list); err != nil {
		return nil, err
	}
	return list, nil
}
