package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"triproute/internal/domain"
)

// ErrNoRoute is returned when the provider cannot compute a route between
// the endpoints (disconnected road graphs, off-road points). Callers treat
// this as expected-degraded and fall back to a straight line.
var ErrNoRoute = errors.New("no route found")

// Route is a provider-computed route between two points. Distance and
// duration are summed across legs.
type Route struct {
	OverviewPolyline string
	DistanceMeters   float64
	DurationSeconds  float64
}

// Provider returns a route for an origin/destination pair.
type Provider interface {
	GetRoute(ctx context.Context, origin, destination domain.Coordinate) (*Route, error)
}

// Client queries a directions HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	mode       string
	httpClient *http.Client
}

// NewClient creates a directions client. Mode selects the travel profile
// (e.g. "driving").
func NewClient(baseURL, apiKey, mode string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		mode:       mode,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type directionsRequest struct {
	Origin      latLng `json:"origin"`
	Destination latLng `json:"destination"`
	Mode        string `json:"mode"`
}

type directionsResponse struct {
	Routes []struct {
		OverviewPolyline string `json:"overviewPolyline"`
		Legs             []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetRoute requests a route between origin and destination.
//
// A 400-class response or an empty routes array is the "no route" case and
// yields ErrNoRoute. Other failures (network errors, 5xx) are surfaced
// as-is and are not retried here; the caller decides whether to retry.
func (c *Client) GetRoute(ctx context.Context, origin, destination domain.Coordinate) (*Route, error) {
	body, err := json.Marshal(directionsRequest{
		Origin:      latLng{Lat: origin.Latitude, Lng: origin.Longitude},
		Destination: latLng{Lat: destination.Latitude, Lng: destination.Longitude},
		Mode:        c.mode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/directions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create directions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNoRoute
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions provider returned status %d", resp.StatusCode)
	}

	var out directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if len(out.Routes) == 0 {
		return nil, ErrNoRoute
	}

	route := out.Routes[0]
	result := &Route{OverviewPolyline: route.OverviewPolyline}
	for _, leg := range route.Legs {
		result.DistanceMeters += leg.Distance
		result.DurationSeconds += leg.Duration
	}

	return result, nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
