package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
)

const (
	NominatimURL       = "https://nominatim.openstreetmap.org/reverse"
	nominatimUserAgent = "fulfillment-bot/1.0"
)

// Nominatim needs no key but rejects requests without a User-Agent.
type Nominatim struct {
	client  *http.Client
	baseURL string
}

func NewNominatim(client *http.Client, baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = NominatimURL
	}
	return &Nominatim{client: client, baseURL: baseURL}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		HouseNumber   string `json:"house_number"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
	} `json:"address"`
}

// Reverse prefers "road, house, suburb" and falls back to the display name.
func (n *Nominatim) Reverse(ctx context.Context, location kernel.Location) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(location.Lat(), 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(location.Lon(), 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "uz")

	header := http.Header{}
	header.Set("User-Agent", nominatimUserAgent)

	var parsed nominatimResponse
	err := getJSON(ctx, n.client, n.baseURL+"?"+q.Encode(), header, func(body []byte) error {
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, p := range []string{parsed.Address.Road, parsed.Address.HouseNumber} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if area := firstNonEmpty(parsed.Address.Suburb, parsed.Address.Neighbourhood); area != "" {
		parts = append(parts, area)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", "), nil
	}
	if parsed.DisplayName == "" {
		return "", errNoAddress
	}
	return parsed.DisplayName, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
