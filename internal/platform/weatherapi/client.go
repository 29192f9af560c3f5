// Package weatherapi implements the weather.Provider interface against
// WeatherAPI.com's forecast endpoint. It fetches raw daily forecasts and
// distills them into the condition buckets and packing recommendation the
// generation pipeline feeds to the LLM.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/domain"
	"github.com/packlane/packlane-api/internal/redact"
)

// maxForecastDays is the furthest horizon the provider supports. Longer
// trips get a forecast for their first two weeks only.
const maxForecastDays = 14

// Client calls WeatherAPI.com. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI.com client from configuration.
func NewClient(cfg config.WeatherConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With("component", "weatherapi_client"),
	}, nil
}

// forecastResponse mirrors the subset of the provider payload we consume.
type forecastResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []forecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type forecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC     float64 `json:"maxtemp_c"`
		MinTempC     float64 `json:"mintemp_c"`
		AvgTempC     float64 `json:"avgtemp_c"`
		ChanceOfRain int     `json:"daily_chance_of_rain"`
		ChanceOfSnow int     `json:"daily_chance_of_snow"`
		Condition    struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"day"`
}

// FetchForecast retrieves and summarizes the forecast for a location over
// the trip's date range. The horizon is clamped to the provider's 14-day
// maximum while the recommendation still accounts for the full duration.
func (c *Client) FetchForecast(ctx context.Context, location string, start, end time.Time) (*domain.Forecast, error) {
	totalDays := int(end.Sub(start).Hours()/24) + 1
	if totalDays < 1 {
		totalDays = 1
	}
	horizon := totalDays
	if horizon > maxForecastDays {
		horizon = maxForecastDays
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", location)
	params.Set("days", fmt.Sprintf("%d", horizon))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	endpoint := c.baseURL + "/forecast.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %s", ErrProviderUnavailable, redact.Error(err))
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The transport error embeds the request URL, API key included.
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, redact.Error(err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("forecast request finished",
		"status", resp.StatusCode,
		"horizon_days", horizon,
		"duration_ms", time.Since(started).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to parsing
	case resp.StatusCode == http.StatusBadRequest:
		// WeatherAPI answers 400 for unknown locations.
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, location)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: provider rejected credentials (status %d)", ErrInvalidConfig, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider returned status %d", ErrProviderUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrInvalidResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %s", ErrProviderUnavailable, redact.Error(err))
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, redact.Error(err))
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("%w: no forecast days in response", ErrInvalidResponse)
	}

	return buildForecast(payload, totalDays)
}

// buildForecast distills the raw provider payload into the domain forecast.
func buildForecast(payload forecastResponse, totalDays int) (*domain.Forecast, error) {
	days := make([]domain.DailyForecast, 0, len(payload.Forecast.ForecastDay))
	var tempSum, tempMin, tempMax float64

	for i, fd := range payload.Forecast.ForecastDay {
		date, err := time.Parse("2006-01-02", fd.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrInvalidResponse, fd.Date)
		}

		avg := fd.Day.AvgTempC
		tempSum += avg
		if i == 0 || avg < tempMin {
			tempMin = avg
		}
		if i == 0 || avg > tempMax {
			tempMax = avg
		}

		days = append(days, domain.DailyForecast{
			Date:         date,
			MaxTempC:     fd.Day.MaxTempC,
			MinTempC:     fd.Day.MinTempC,
			AvgTempC:     avg,
			Condition:    fd.Day.Condition.Text,
			ChanceOfRain: fd.Day.ChanceOfRain,
			ChanceOfSnow: fd.Day.ChanceOfSnow,
		})
	}

	avgTemp := math.Round(tempSum/float64(len(days))*10) / 10
	conditions := bucketConditions(payload.Forecast.ForecastDay)

	return &domain.Forecast{
		Location:       payload.Location.Name,
		Country:        payload.Location.Country,
		AvgTempC:       avgTemp,
		Conditions:     conditions,
		Recommendation: buildRecommendation(avgTemp, conditions, totalDays, tempMax-tempMin),
		Days:           days,
	}, nil
}

// bucketConditions maps each day's raw condition into one of the coarse
// buckets and collapses to "mixed" when the trip spans more than two.
func bucketConditions(forecastDays []forecastDay) []domain.WeatherCondition {
	seen := map[domain.WeatherCondition]bool{}
	var ordered []domain.WeatherCondition

	add := func(c domain.WeatherCondition) {
		if !seen[c] {
			seen[c] = true
			ordered = append(ordered, c)
		}
	}

	for _, fd := range forecastDays {
		text := strings.ToLower(fd.Day.Condition.Text)
		switch {
		case fd.Day.ChanceOfSnow > 30 || strings.Contains(text, "snow"):
			add(domain.ConditionSnowy)
		case fd.Day.ChanceOfRain > 30 || strings.Contains(text, "rain"):
			add(domain.ConditionRainy)
		case strings.Contains(text, "cloud") || strings.Contains(text, "overcast"):
			add(domain.ConditionCloudy)
		case strings.Contains(text, "sun") || strings.Contains(text, "clear"):
			add(domain.ConditionSunny)
		}
	}

	if len(ordered) > 2 {
		return []domain.WeatherCondition{domain.ConditionMixed}
	}
	if len(ordered) == 0 {
		return []domain.WeatherCondition{domain.ConditionSunny}
	}
	return ordered
}

// buildRecommendation composes a short human-readable packing hint from the
// temperature band, the condition buckets, day-to-day variation, and trip
// length.
func buildRecommendation(avgTemp float64, conditions []domain.WeatherCondition, totalDays int, tempRange float64) string {
	var parts []string

	switch {
	case avgTemp < 10:
		parts = append(parts, "Pack warm layers and a heavy jacket")
	case avgTemp < 20:
		parts = append(parts, "Pack layers - it will be cool")
	case avgTemp < 25:
		parts = append(parts, "Pack light layers for mild weather")
	default:
		parts = append(parts, "Pack light, breathable clothing")
	}

	has := func(c domain.WeatherCondition) bool {
		for _, cond := range conditions {
			if cond == c {
				return true
			}
		}
		return false
	}

	if has(domain.ConditionRainy) || has(domain.ConditionMixed) {
		parts = append(parts, "Don't forget rain gear!")
	}
	if has(domain.ConditionSnowy) {
		parts = append(parts, "Winter gear essential")
	}
	if tempRange > 10 {
		parts = append(parts, "Temperature varies - pack versatile items")
	}
	if totalDays > maxForecastDays {
		parts = append(parts, fmt.Sprintf("Long trip (%d days) - consider laundry options", totalDays))
	}

	return strings.Join(parts, ". ") + "."
}
