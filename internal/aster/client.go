// Package aster provides a client for the Aster baby-log API
package aster

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
)

// ServerStatus is the API health response
type ServerStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Client handles communication with the Aster API
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a new Aster client
func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// buildRequest creates an HTTP request with proper authentication
func (c *Client) buildRequest(method, endpoint string, params url.Values) (*http.Request, error) {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequest(method, fullURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	return req, nil
}

// doRequest executes an HTTP request and returns the response body
func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// GetStatus retrieves the Aster server status
func (c *Client) GetStatus() (*ServerStatus, error) {
	req, err := c.buildRequest("GET", "/api/v1/status", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	var status ServerStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parsing status: %w", err)
	}

	return &status, nil
}

// GetBaby retrieves the baby profile for the configured account
func (c *Client) GetBaby() (*models.BabyProfile, error) {
	req, err := c.buildRequest("GET", "/api/v1/baby", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	// The endpoint returns a single profile or an array of them
	var baby models.BabyProfile
	if err := json.Unmarshal(body, &baby); err != nil {
		var babies []models.BabyProfile
		if err := json.Unmarshal(body, &babies); err != nil {
			return nil, fmt.Errorf("parsing baby: %w", err)
		}
		if len(babies) > 0 {
			return &babies[0], nil
		}
		return nil, fmt.Errorf("no baby profile returned")
	}

	return &baby, nil
}

// GetEvents retrieves log events for a time range
func (c *Client) GetEvents(from, to time.Time, count int) ([]models.Event, error) {
	params := url.Values{}

	if !from.IsZero() {
		params.Set("find[date][$gte]", fmt.Sprintf("%d", from.UnixMilli()))
	}
	if !to.IsZero() {
		params.Set("find[date][$lte]", fmt.Sprintf("%d", to.UnixMilli()))
	}
	if count > 0 {
		params.Set("count", fmt.Sprintf("%d", count))
	}

	req, err := c.buildRequest("GET", "/api/v1/events", params)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	return events, nil
}

// GetEventsDays retrieves log events for the last N days
func (c *Client) GetEventsDays(days int) ([]models.Event, error) {
	from := time.Now().AddDate(0, 0, -days)
	return c.GetEvents(from, time.Time{}, 0)
}

// GetRecentEvents retrieves the most recent N events
func (c *Client) GetRecentEvents(count int) ([]models.Event, error) {
	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", count))

	req, err := c.buildRequest("GET", "/api/v1/events", params)
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	return events, nil
}

// TestConnection tests if the connection to Aster works
func (c *Client) TestConnection() error {
	_, err := c.GetStatus()
	return err
}
