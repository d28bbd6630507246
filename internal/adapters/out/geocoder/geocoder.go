// Package geocoder turns order coordinates into a readable street address
// using Yandex with an OpenStreetMap Nominatim fallback.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a provider response is read.
const maxBody = 1 << 20

var errNoAddress = errors.New("no address in response")

var countrySuffix = regexp.MustCompile(`(?i)\s*[,/]\s*(uzbekistan|o[ʻ']zbekiston)\s*`)

// Provider is one reverse-geocoding backend.
type Provider interface {
	Name() string
	Reverse(ctx context.Context, location kernel.Location) (string, error)
}

// Chain asks each provider in turn until one returns an address. All
// attempts share a single deadline.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewChain(timeout time.Duration, m *metrics.Metrics, logger *slog.Logger, providers ...Provider) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		metrics:   m,
		logger:    logger.With("component", "geocoder"),
	}
}

// Resolve implements ports.AddressResolver.
func (c *Chain) Resolve(ctx context.Context, location kernel.Location) (string, error) {
	if err := location.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var failures []error
	for _, p := range c.providers {
		address, err := p.Reverse(ctx, location)
		c.metrics.GeocoderCalled(p.Name(), err)
		if err == nil {
			if address = Clean(address); address != "" {
				return address, nil
			}
			err = errNoAddress
		}

		c.logger.DebugContext(ctx, "provider failed", "provider", p.Name(), "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}

	if len(failures) == 0 {
		failures = append(failures, errors.New("no providers configured"))
	}
	return "", errs.NewUpstreamUnavailableErrorWithCause("geocoder", errors.Join(failures...))
}

// Clean drops the country name from an address.
func Clean(address string) string {
	return strings.TrimSpace(countrySuffix.ReplaceAllString(address, ""))
}

func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, decode func([]byte) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return decode(body)
}
