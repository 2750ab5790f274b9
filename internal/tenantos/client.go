// Package tenantos talks to the remote server-fleet management API. It is a
// thin read-only adapter: one page per request, no retries, no pagination.
package tenantos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for the given API base URL (e.g.
// https://manage.linveo.com/api) and bearer token. Passing nil uses a default
// http.Client; outbound calls have no client-side timeout, cancel via ctx.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    hc,
	}
}

// ListServers fetches the full server listing. The result field of the reply
// is returned as-is; a reply without it yields an empty slice.
func (c *Client) ListServers(ctx context.Context) ([]ServerRecord, error) {
	var out struct {
		Result []ServerRecord `json:"result"`
	}
	if err := c.get(ctx, "/servers", &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// FetchInventory fetches the raw inventory component list for one server.
func (c *Client) FetchInventory(ctx context.Context, serverID int64) ([]InventoryItem, error) {
	var out struct {
		Result []InventoryItem `json:"result"`
	}
	if err := c.get(ctx, fmt.Sprintf("/servers/%d/inventory", serverID), &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
