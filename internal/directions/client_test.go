package directions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"triproute/internal/domain"
)

var (
	testOrigin      = domain.Coordinate{Latitude: -4.441931, Longitude: 15.266293}
	testDestination = domain.Coordinate{Latitude: -4.4, Longitude: 15.3}
)

func TestGetRoute_SumsLegs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Origin.Lat != testOrigin.Latitude || req.Destination.Lng != testDestination.Longitude {
			t.Errorf("unexpected endpoints in request: %+v", req)
		}
		if req.Mode != "driving" {
			t.Errorf("expected mode driving, got %q", req.Mode)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{
				"overviewPolyline": "_p~iF~ps|U_ulLnnqC",
				"legs": []map[string]float64{
					{"distance": 7000, "duration": 3000},
					{"distance": 5000, "duration": 2400},
				},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "driving", 2*time.Second)

	route, err := client.GetRoute(context.Background(), testOrigin, testDestination)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if route.DistanceMeters != 12000 {
		t.Errorf("expected 12000 meters, got %f", route.DistanceMeters)
	}
	if route.DurationSeconds != 5400 {
		t.Errorf("expected 5400 seconds, got %f", route.DurationSeconds)
	}
	if route.OverviewPolyline == "" {
		t.Error("expected overview polyline")
	}
}

func TestGetRoute_NoRouteOn400(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no route between points"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "driving", 2*time.Second)

	_, err := client.GetRoute(context.Background(), testOrigin, testDestination)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestGetRoute_NoRouteOnEmptyRoutes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"routes": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "driving", 2*time.Second)

	_, err := client.GetRoute(context.Background(), testOrigin, testDestination)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestGetRoute_ServerErrorIsNotNoRoute(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "driving", 2*time.Second)

	_, err := client.GetRoute(context.Background(), testOrigin, testDestination)
	if err == nil {
		t.Fatal("expected error for 5xx response")
	}
	if errors.Is(err, ErrNoRoute) {
		t.Error("5xx must be surfaced as a hard failure, not ErrNoRoute")
	}
}
