package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/YohanReddy/ai-chatbot/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// WeatherClient queries the Open-Meteo forecast API. Answers are cached per
// rounded coordinate for a few minutes.
type WeatherClient struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

func NewWeatherClient(baseURL string) *WeatherClient {
	return &WeatherClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(10*time.Minute, 20*time.Minute),
	}
}

func (c *WeatherClient) Current(ctx context.Context, latitude, longitude float64) (json.RawMessage, error) {
	key := fmt.Sprintf("%.2f,%.2f", latitude, longitude)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(json.RawMessage), nil
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m")
	q.Set("hourly", "temperature_2m")
	q.Set("daily", "sunrise,sunset")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api error: status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("weather api returned invalid json")
	}

	result := json.RawMessage(body)
	c.cache.SetDefault(key, result)
	return result, nil
}

type weatherArgs struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

var weatherSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"latitude": {"type": "number"},
		"longitude": {"type": "number"}
	},
	"required": ["latitude", "longitude"]
}`)

func newWeatherTool(client *WeatherClient) Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        GetWeather,
			Description: "Get the current weather at a location",
			Parameters:  weatherSchema,
		},
		Execute: func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
			var args weatherArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return client.Current(ctx, *args.Latitude, *args.Longitude)
		},
	}
}
