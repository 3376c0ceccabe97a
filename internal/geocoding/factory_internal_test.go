package geocoding

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewProvider_Nominatim(t *testing.T) {
	t.Run("missing rate limit falls back to the fair use limit", func(t *testing.T) {
		var logs bytes.Buffer

		provider, err := NewProvider(ProviderConfig{Type: ProviderTypeNominatim, Logger: bufferLogger(&logs)})

		require.NoError(t, err)
		np, ok := provider.(*NominatimProvider)
		require.True(t, ok)
		assert.Equal(t, rate.Limit(defaultNominatimRate), np.limiter.Limit())
		assert.Equal(t, 1, np.limiter.Burst())
		assert.Contains(t, logs.String(), "Rate limit for Nominatim not set")
		assert.Contains(t, logs.String(), "value=1")
	})

	t.Run("configured rate limit is applied without a warning", func(t *testing.T) {
		var logs bytes.Buffer

		provider, err := NewProvider(ProviderConfig{Type: ProviderTypeNominatim, RateLimit: 4, Logger: bufferLogger(&logs)})

		require.NoError(t, err)
		np, ok := provider.(*NominatimProvider)
		require.True(t, ok)
		assert.Equal(t, rate.Limit(4), np.limiter.Limit())
		assert.Equal(t, nominatimUserAgent, np.userAgent)
		assert.Empty(t, logs.String())
	})

	t.Run("negative rate limit is treated as unset", func(t *testing.T) {
		provider, err := NewProvider(ProviderConfig{Type: ProviderTypeNominatim, RateLimit: -3, Logger: slog.Default()})

		require.NoError(t, err)
		assert.Equal(t, rate.Limit(defaultNominatimRate), provider.(*NominatimProvider).limiter.Limit())
	})

	t.Run("nil logger uses the default one", func(t *testing.T) {
		provider, err := NewProvider(ProviderConfig{Type: ProviderTypeNominatim})

		require.NoError(t, err)
		assert.NotNil(t, provider.(*NominatimProvider).log)
	})
}

func TestNewProvider_Google(t *testing.T) {
	t.Run("api key is required", func(t *testing.T) {
		provider, err := NewProvider(ProviderConfig{Type: ProviderTypeGoogle, RateLimit: 10})

		require.ErrorIs(t, err, ErrMissingAPIKey)
		assert.Nil(t, provider)
	})

	t.Run("client is built with or without a limit", func(t *testing.T) {
		for _, perSecond := range []int{0, 25} {
			provider, err := NewProvider(ProviderConfig{Type: ProviderTypeGoogle, APIKey: "test-key", RateLimit: perSecond})

			require.NoError(t, err)
			assert.IsType(t, &GoogleProvider{}, provider)
		}
	})
}

func TestNewProvider_Unknown(t *testing.T) {
	for _, name := range []ProviderType{"visicom", ""} {
		provider, err := NewProvider(ProviderConfig{Type: name})

		require.ErrorIs(t, err, ErrUnknownProvider)
		assert.Nil(t, provider)
	}
}
