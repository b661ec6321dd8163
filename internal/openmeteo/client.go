package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"skycourier/internal/common"
	t "skycourier/internal/types"
)

type Response struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    Hourly  `json:"hourly"`
}

type Hourly struct {
	Time              []int64   `json:"time"`
	Temperature       []float64 `json:"temperature_2m"`
	PrecipProbability []float64 `json:"precipitation_probability"`
	WindSpeed         []float64 `json:"wind_speed_10m"`
	WeatherCode       []int     `json:"weather_code"`
}

type ClientOption func(*Client)

type Client struct {
	baseUrl string
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in openmeteo client")
	}
	return c
}

// Forecast fetches the next forecast hour for the stop's coordinates.
func (c *Client) Forecast(ctx context.Context, stop t.Stop) (t.Observation, error) {
	req, err := url.Parse(c.baseUrl)
	if err != nil {
		return t.Observation{}, fmt.Errorf("failed to parse openmeteo baseUrl %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("latitude", strconv.FormatFloat(stop.Latitude, 'f', -1, 64))
	q.Add("longitude", strconv.FormatFloat(stop.Longitude, 'f', -1, 64))
	q.Add("hourly", "temperature_2m,precipitation_probability,wind_speed_10m,weather_code")
	q.Add("forecast_hours", "1")
	q.Add("timeformat", "unixtime")
	q.Add("wind_speed_unit", "kmh")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "openmeteo")
	if err != nil {
		return t.Observation{}, err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.Observation{}, fmt.Errorf("error reading openmeteo response body: %w", err)
	}

	var respObj Response
	err = json.Unmarshal(body, &respObj)
	if err != nil {
		return t.Observation{}, fmt.Errorf("error unmarshalling response from openmeteo: %w", err)
	}

	return observationFromHourly(respObj.Hourly)
}

func observationFromHourly(h Hourly) (t.Observation, error) {
	if len(h.Time) == 0 || len(h.Temperature) == 0 || len(h.PrecipProbability) == 0 ||
		len(h.WindSpeed) == 0 || len(h.WeatherCode) == 0 {
		return t.Observation{}, errors.New("empty hourly forecast from openmeteo")
	}
	return t.Observation{
		TemperatureC:      h.Temperature[0],
		PrecipProbability: h.PrecipProbability[0],
		WindSpeedKMH:      h.WindSpeed[0],
		WeatherCode:       h.WeatherCode[0],
		Condition:         conditionText(h.WeatherCode[0]),
	}, nil
}

// conditionText maps WMO weather codes to a display string.
func conditionText(code int) string {
	switch {
	case code == 0:
		return "Clear Sky"
	case code <= 2:
		return "Mostly Clear"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain Showers"
	case code == 85 || code == 86:
		return "Snow Showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
