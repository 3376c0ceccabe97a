package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType names a geocoding backend.
type ProviderType string

const (
	ProviderTypeGoogle    ProviderType = "google"
	ProviderTypeNominatim ProviderType = "nominatim"
)

// defaultNominatimRate is the fair use limit of the public Nominatim instance.
const defaultNominatimRate = 1

var (
	ErrUnknownProvider = errors.New("unsupported provider type")
	ErrMissingAPIKey   = errors.New("provider needs an API key")
)

// ProviderConfig selects and tunes the backend used for the backfill.
type ProviderConfig struct {
	Type      ProviderType
	APIKey    string // APIKey is only read by the Google backend.
	RateLimit int    // RateLimit is in requests per second; zero means the backend default.
	Logger    *slog.Logger
}

// NewProvider builds the backend named by config.Type. Google needs an API key;
// Nominatim falls back to one request per second when no limit is given.
func NewProvider(config ProviderConfig) (Provider, error) {
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	switch config.Type {
	case ProviderTypeGoogle:
		provider, err := googleFromConfig(config.APIKey, config.RateLimit, log)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderTypeNominatim:
		return nominatimFromConfig(config.RateLimit, log), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Type)
}

func googleFromConfig(apiKey string, perSecond int, log *slog.Logger) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", ProviderTypeGoogle, ErrMissingAPIKey)
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if perSecond > 0 {
		opts = append(opts, maps.WithRateLimit(perSecond))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}
	return NewGoogleProvider(client, log), nil
}

func nominatimFromConfig(perSecond int, log *slog.Logger) *NominatimProvider {
	if perSecond <= 0 {
		perSecond = defaultNominatimRate
		log.Warn("Rate limit for Nominatim not set, using the fair use limit", "value", perSecond)
	}
	return NewNominatimProvider(perSecond, log)
}
