package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"fulfillment/internal/core/domain/model/kernel"
)

const YandexURL = "https://geocode-maps.yandex.ru/1.x/"

type Yandex struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewYandex(client *http.Client, baseURL, apiKey string) *Yandex {
	if baseURL == "" {
		baseURL = YandexURL
	}
	return &Yandex{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (y *Yandex) Name() string { return "yandex" }

type yandexResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Name             string `json:"name"`
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Text    string `json:"text"`
							Address struct {
								Formatted string `json:"formatted"`
							} `json:"Address"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Reverse queries in lon,lat order, which is what Yandex expects.
func (y *Yandex) Reverse(ctx context.Context, location kernel.Location) (string, error) {
	q := url.Values{}
	q.Set("apikey", y.apiKey)
	q.Set("geocode", strconv.FormatFloat(location.Lon(), 'f', -1, 64)+","+
		strconv.FormatFloat(location.Lat(), 'f', -1, 64))
	q.Set("format", "json")
	q.Set("lang", "uz_UZ")
	q.Set("results", "1")

	var parsed yandexResponse
	err := getJSON(ctx, y.client, y.baseURL+"?"+q.Encode(), nil, func(body []byte) error {
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return "", err
	}

	members := parsed.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return "", errNoAddress
	}
	obj := members[0].GeoObject
	for _, candidate := range []string{
		obj.MetaDataProperty.GeocoderMetaData.Text,
		obj.MetaDataProperty.GeocoderMetaData.Address.Formatted,
		obj.Name,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", errNoAddress
}
