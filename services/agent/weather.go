package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

type WeatherToolInput struct {
	City string `json:"city" jsonschema:"required,description=The city to get the weather for. Example: Madrid"`
}

// WeatherTool fetches current conditions and a three-day forecast from the
// Open-Meteo API, which requires no API key.
type WeatherTool struct {
	client      *http.Client
	geocodeURL  string
	forecastURL string
}

func NewWeatherTool() *WeatherTool {
	return &WeatherTool{
		client:      &http.Client{Timeout: 10 * time.Second},
		geocodeURL:  "https://geocoding-api.open-meteo.com/v1/search",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
	}
}

func (t *WeatherTool) Name() string {
	return "weather"
}

func (t *WeatherTool) Description() string {
	return "Gets the current weather and a three day forecast for a city"
}

type geocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		ApparentTemp  float64 `json:"apparent_temperature"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
		Precipitation float64 `json:"precipitation"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		PrecipProb  []float64 `json:"precipitation_probability_max"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

func (t *WeatherTool) Call(ctx context.Context, input string) (string, error) {
	var params WeatherToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse weather tool input: %v", err)
	}

	city := strings.TrimSpace(params.City)
	if city == "" {
		return "", fmt.Errorf("city cannot be empty")
	}

	location, err := t.geocode(ctx, city)
	if err != nil {
		return "", err
	}

	forecast, err := t.forecast(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return "", err
	}

	return formatWeatherReport(location, forecast), nil
}

func (t *WeatherTool) geocode(ctx context.Context, city string) (*geocodeResult, error) {
	query := url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var response geocodeResponse
	if err := t.getJSON(ctx, t.geocodeURL+"?"+query.Encode(), &response); err != nil {
		return nil, fmt.Errorf("geocoding failed: %v", err)
	}

	if len(response.Results) == 0 {
		return nil, fmt.Errorf("could not find city %q", city)
	}
	return &response.Results[0], nil
}

func (t *WeatherTool) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	query := url.Values{
		"latitude":      {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":       {"temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m,precipitation"},
		"daily":         {"temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code"},
		"timezone":      {"auto"},
		"forecast_days": {"3"},
	}

	var response forecastResponse
	if err := t.getJSON(ctx, t.forecastURL+"?"+query.Encode(), &response); err != nil {
		return nil, fmt.Errorf("weather lookup failed: %v", err)
	}
	return &response, nil
}

func (t *WeatherTool) getJSON(ctx context.Context, requestURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func formatWeatherReport(location *geocodeResult, forecast *forecastResponse) string {
	locationName := location.Name
	if location.Admin1 != "" {
		locationName += ", " + location.Admin1
	}
	if location.Country != "" {
		locationName += ", " + location.Country
	}

	current := forecast.Current
	report := fmt.Sprintf(`WEATHER IN %s

%s

Temperature: %.1f°C (feels like %.1f°C)
Humidity: %.0f%%
Wind: %.1f km/h (%s)
Precipitation: %.1f mm

FORECAST:`,
		strings.ToUpper(locationName),
		weatherCodeDescription(current.WeatherCode),
		current.Temperature, current.ApparentTemp,
		current.Humidity,
		current.WindSpeed, windDirectionToCompass(current.WindDirection),
		current.Precipitation)

	dayNames := []string{"Today", "Tomorrow", "Day after tomorrow"}
	for i := range forecast.Daily.Time {
		if i >= len(forecast.Daily.TempMax) || i >= len(forecast.Daily.TempMin) || i >= len(forecast.Daily.WeatherCode) {
			break
		}
		name := forecast.Daily.Time[i]
		if i < len(dayNames) {
			name = dayNames[i]
		}
		report += fmt.Sprintf("\n   %s: %s", name, weatherCodeDescription(forecast.Daily.WeatherCode[i]))
		report += fmt.Sprintf("\n      %.1f°C - %.1f°C", forecast.Daily.TempMin[i], forecast.Daily.TempMax[i])
		if i < len(forecast.Daily.PrecipProb) {
			report += fmt.Sprintf(" | %.0f%% chance of rain", forecast.Daily.PrecipProb[i])
		}
	}

	return report
}

// WMO weather interpretation codes as reported by Open-Meteo.
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Light snow",
	73: "Moderate snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Light rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Light snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with light hail",
	99: "Thunderstorm with heavy hail",
}

func weatherCodeDescription(code int) string {
	if description, ok := weatherCodes[code]; ok {
		return description
	}
	return fmt.Sprintf("Weather code %d", code)
}

func windDirectionToCompass(degrees float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := int(math.Round(degrees/45)) % 8
	if index < 0 {
		index += 8
	}
	return directions[index]
}

func (t *WeatherTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[WeatherToolInput]()
}
