package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"udonboard/internal/models"
)

// Client fetches board state from the udonboard HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given API address.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Orders fetches the visible board.
func (c *Client) Orders() ([]models.Order, error) {
	var orders []models.Order
	if err := c.getJSON("/api/v1/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Pots fetches the pot occupancy vector.
func (c *Client) Pots() ([]bool, error) {
	var resp struct {
		Pots []bool `json:"pots"`
	}
	if err := c.getJSON("/api/v1/pots", &resp); err != nil {
		return nil, err
	}
	return resp.Pots, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
