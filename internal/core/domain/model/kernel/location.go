package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or ParseLocation")

// Location is an immutable geographic point. The zero value is invalid.
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

func NewLocation(lat, lon float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// ParseLocation reads the "lat,lon" wire form used by order intake.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location",
			fmt.Errorf("expected \"lat,lon\", got %q", s))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Location{}, errs.NewValueIsInvalidErrorWithCause("location", err)
	}

	return NewLocation(lat, lon)
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Lat() float64 {
	return l.lat
}

func (l Location) Lon() float64 {
	return l.lon
}

// String renders the "lat,lon" wire form.
func (l Location) String() string {
	return strconv.FormatFloat(l.lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.lon, 'f', -1, 64)
}

func (l Location) GoogleMapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s", l.String())
}

// YandexMapsURL uses Yandex's lon,lat ordering.
func (l Location) YandexMapsURL() string {
	lonLat := strconv.FormatFloat(l.lon, 'f', -1, 64) + "," + strconv.FormatFloat(l.lat, 'f', -1, 64)
	return fmt.Sprintf("https://yandex.uz/maps/?ll=%s&z=16&pt=%s", lonLat, lonLat)
}

func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return l.lat == other.lat && l.lon == other.lon, nil
}

func (l *Location) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}
	l.lat = lat
	return nil
}

func (l *Location) setLon(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}
	l.lon = lon
	return nil
}
