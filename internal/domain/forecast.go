package domain

import "time"

// WeatherCondition is a coarse bucket describing a day's dominant weather.
type WeatherCondition string

// Possible weather condition values
const (
	ConditionSunny  WeatherCondition = "sunny"
	ConditionCloudy WeatherCondition = "cloudy"
	ConditionRainy  WeatherCondition = "rainy"
	ConditionSnowy  WeatherCondition = "snowy"
	// ConditionMixed is used when the forecast spans more than two distinct
	// condition buckets over the trip.
	ConditionMixed WeatherCondition = "mixed"
)

// DailyForecast is the parsed forecast for a single day.
type DailyForecast struct {
	Date         time.Time `json:"date"`
	MaxTempC     float64   `json:"max_temp_c"`
	MinTempC     float64   `json:"min_temp_c"`
	AvgTempC     float64   `json:"avg_temp_c"`
	Condition    string    `json:"condition"`
	ChanceOfRain int       `json:"chance_of_rain"`
	ChanceOfSnow int       `json:"chance_of_snow"`
}

// Forecast is the weather context handed to packing-list generation:
// an averaged summary plus the per-day breakdown and a human-readable
// packing recommendation derived from both.
type Forecast struct {
	Location       string             `json:"location"`
	Country        string             `json:"country"`
	AvgTempC       float64            `json:"avg_temp_c"`
	Conditions     []WeatherCondition `json:"conditions"`
	Recommendation string             `json:"recommendation"`
	Days           []DailyForecast    `json:"days"`
}
