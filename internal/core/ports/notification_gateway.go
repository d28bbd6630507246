package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Link is a button that opens a URL instead of calling back.
type Link struct {
	Text string
	URL  string
}

// Message is a rendered notification. Actions become callback buttons, one per row.
type Message struct {
	Text     string
	Actions  []order.Action
	Links    []Link
	Location *kernel.Location
}

// NotificationGateway delivers messages over one channel. Every channel shares
// this contract; failures are reported per recipient.
type NotificationGateway interface {
	Send(ctx context.Context, recipient int64, msg Message) error
}

// MapLinks opens a location in Google Maps and Yandex Maps.
func MapLinks(loc kernel.Location) []Link {
	return []Link{
		{Text: "🗺️ Google Maps", URL: loc.GoogleMapsURL()},
		{Text: "🗺️ Yandex Maps", URL: loc.YandexMapsURL()},
	}
}
