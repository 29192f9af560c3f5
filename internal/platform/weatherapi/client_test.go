package weatherapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/domain"
)

const twoDayPayload = `{
	"location": {"name": "Tokyo", "country": "Japan"},
	"forecast": {"forecastday": [
		{
			"date": "2026-03-28",
			"day": {
				"maxtemp_c": 14.0, "mintemp_c": 6.0, "avgtemp_c": 10.0,
				"daily_chance_of_rain": 80, "daily_chance_of_snow": 0,
				"condition": {"text": "Moderate rain"}
			}
		},
		{
			"date": "2026-03-29",
			"day": {
				"maxtemp_c": 18.0, "mintemp_c": 9.0, "avgtemp_c": 15.0,
				"daily_chance_of_rain": 5, "daily_chance_of_snow": 0,
				"condition": {"text": "Sunny"}
			}
		}
	]}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.WeatherConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client, server
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewClient(config.WeatherConfig{BaseURL: "http://example.com"}, logger)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(config.WeatherConfig{APIKey: "k"}, logger)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFetchForecast_ParsesPayload(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"key": q.Get("key"), "q": q.Get("q"), "days": q.Get("days"),
			"aqi": q.Get("aqi"), "alerts": q.Get("alerts"),
		}
		assert.Equal(t, "/forecast.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoDayPayload))
	})

	start := time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC)
	forecast, err := client.FetchForecast(context.Background(), "Tokyo", start, start.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"key": "test-key", "q": "Tokyo", "days": "2", "aqi": "no", "alerts": "no",
	}, gotQuery)

	assert.Equal(t, "Tokyo", forecast.Location)
	assert.Equal(t, "Japan", forecast.Country)
	assert.InDelta(t, 12.5, forecast.AvgTempC, 0.001)
	assert.Equal(t, []domain.WeatherCondition{domain.ConditionRainy, domain.ConditionSunny}, forecast.Conditions)
	assert.Contains(t, forecast.Recommendation, "Pack layers - it will be cool")
	assert.Contains(t, forecast.Recommendation, "rain gear")

	require.Len(t, forecast.Days, 2)
	assert.Equal(t, "Moderate rain", forecast.Days[0].Condition)
	assert.Equal(t, 80, forecast.Days[0].ChanceOfRain)
	assert.Equal(t, time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC), forecast.Days[0].Date)
}

func TestFetchForecast_ClampsHorizon(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "14", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(twoDayPayload))
	})

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	forecast, err := client.FetchForecast(context.Background(), "Lisbon", start, start.AddDate(0, 0, 19))
	require.NoError(t, err)

	// The recommendation still reflects the full 20-day trip.
	assert.Contains(t, forecast.Recommendation, "Long trip (20 days)")
}

func TestFetchForecast_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unknown location", http.StatusBadRequest, `{"error":{"code":1006}}`, ErrLocationNotFound},
		{"bad credentials", http.StatusUnauthorized, `{}`, ErrInvalidConfig},
		{"provider down", http.StatusInternalServerError, ``, ErrProviderUnavailable},
		{"malformed body", http.StatusOK, `{not json`, ErrInvalidResponse},
		{"empty forecast", http.StatusOK, `{"forecast":{"forecastday":[]}}`, ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
			_, err := client.FetchForecast(context.Background(), "Nowhere", start, start)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestFetchForecast_TransportErrorRedactsKey(t *testing.T) {
	t.Parallel()

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.FetchForecast(context.Background(), "Tokyo", start, start)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.NotContains(t, err.Error(), "test-key")
}

func TestBucketConditions(t *testing.T) {
	t.Parallel()

	day := func(text string, rain, snow int) forecastDay {
		var fd forecastDay
		fd.Day.Condition.Text = text
		fd.Day.ChanceOfRain = rain
		fd.Day.ChanceOfSnow = snow
		return fd
	}

	tests := []struct {
		name string
		days []forecastDay
		want []domain.WeatherCondition
	}{
		{
			name: "snow chance wins over text",
			days: []forecastDay{day("Cloudy", 0, 45)},
			want: []domain.WeatherCondition{domain.ConditionSnowy},
		},
		{
			name: "rain threshold is exclusive",
			days: []forecastDay{day("Overcast", 30, 0)},
			want: []domain.WeatherCondition{domain.ConditionCloudy},
		},
		{
			name: "more than two buckets collapse to mixed",
			days: []forecastDay{
				day("Sunny", 0, 0),
				day("Overcast", 0, 0),
				day("Light rain", 90, 0),
			},
			want: []domain.WeatherCondition{domain.ConditionMixed},
		},
		{
			name: "unrecognized text defaults to sunny",
			days: []forecastDay{day("Haboob", 0, 0)},
			want: []domain.WeatherCondition{domain.ConditionSunny},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, bucketConditions(tc.days))
		})
	}
}
