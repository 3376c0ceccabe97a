package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"golang.org/x/time/rate"
)

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	nominatimUserAgent = "Labelmap/1.0 (https://github.com/UnknownOlympus/labelmap)"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// The public instance allows one request per second.
type NominatimProvider struct {
	client    HTTPClient
	baseURL   string
	log       *slog.Logger
	limiter   *rate.Limiter
	userAgent string // userAgent is required by the Nominatim usage policy
}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type nominatimResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

var (
	bracketed     = regexp.MustCompile(`\s*[\[(]([^\])]*)[\])]\s*`)
	saintPrefixes = strings.NewReplacer("St. ", "Saint ", "St ", "Saint ")
)

// NewNominatimProvider creates a provider for the public Nominatim API limited to
// rateLimit requests per second.
func NewNominatimProvider(rateLimit int, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	return NewNominatimProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(rateLimit), 1),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// A nil limiter disables rate limiting.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		log:       log,
		limiter:   limiter,
		userAgent: nominatimUserAgent,
	}
}

// Geocode looks name up on Nominatim, trying progressively simpler variants of
// the name until one returns a result:
// 1. the name as given ("Myanmar [Burma]")
// 2. the name without bracketed parts ("Myanmar")
// 3. each bracketed part on its own ("Burma")
// 4. abbreviated saints spelled out ("St. Lucia" -> "Saint Lucia").
func (np *NominatimProvider) Geocode(ctx context.Context, name string) (*models.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "name", name)

	variants := nameVariants(name)
	for idx, variant := range variants {
		coords, err := np.search(ctx, variant)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Geocoded using name variant",
					"name", name,
					"variant", variant,
					"fallback_level", idx)
			}
			return coords, nil
		}

		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return nil, err
		}

		np.log.DebugContext(ctx, "Name variant returned no results, trying next",
			"variant", variant,
			"fallback_level", idx)
	}

	np.log.WarnContext(ctx, "All name variants exhausted", "name", name, "variants_tried", len(variants))
	return nil, ErrNominatimEmptyResponse
}

// nameVariants returns the unique lookup variants of a country name in the order
// they are tried.
func nameVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{""}
	}

	seen := make(map[string]bool)
	var variants []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(name)
	add(bracketed.ReplaceAllString(name, " "))
	for _, m := range bracketed.FindAllStringSubmatch(name, -1) {
		add(m[1])
	}
	for _, v := range append([]string(nil), variants...) {
		add(saintPrefixes.Replace(v))
	}

	return variants
}

func (np *NominatimProvider) search(ctx context.Context, query string) (*models.Coordinates, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []nominatimResponse
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, results[0].Lon)
	}

	coords := &models.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: %s,%s", ErrNominatimInvalidCoords, results[0].Lat, results[0].Lon)
	}
	return coords, nil
}
