package authUtils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const nominatimEndpoint = "https://nominatim.openstreetmap.org/reverse"

var geocodeClient = &http.Client{Timeout: 5 * time.Second}

// ReverseGeocode resolves coordinates to a display address via
// Nominatim. Callers treat an error as "address unavailable"; a geocoder
// outage must never block an issue report.
func ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nominatimEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	// Nominatim usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "CivicConnect/1.0 (civicconnectpvt@gmail.com)")

	resp, err := geocodeClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.DisplayName == "" {
		return "", fmt.Errorf("address not found")
	}
	return payload.DisplayName, nil
}
