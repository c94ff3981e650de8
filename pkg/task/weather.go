package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

const defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherHandler answers get_weather via OpenWeatherMap
type WeatherHandler struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type WeatherOption func(*WeatherHandler)

func WithWeatherBaseURL(u string) WeatherOption {
	return func(h *WeatherHandler) {
		h.baseURL = u
	}
}

func NewWeatherHandler(apiKey string, opts ...WeatherOption) *WeatherHandler {
	h := &WeatherHandler{
		apiKey:  apiKey,
		baseURL: defaultWeatherURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *WeatherHandler) Intent() model.Action { return model.ActionGetWeather }
func (h *WeatherHandler) Required() []string   { return nil }

func (h *WeatherHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	if h.apiKey == "" {
		return "My weather service is not configured.", nil
	}

	location := entities["location"]
	if location == "" {
		return "Please specify a city to get the weather.", nil
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", h.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build weather request")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "weather service unreachable", goerr.V("location", location))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("weather service returned an error", goerr.V("status", resp.StatusCode), goerr.V("location", location))
	}

	var body struct {
		Name    string `json:"name"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "failed to decode weather response")
	}

	desc := "unknown conditions"
	if len(body.Weather) > 0 {
		desc = body.Weather[0].Description
	}
	return fmt.Sprintf("The weather in %s is %s with a temperature of %.1f degrees Celsius.", body.Name, desc, body.Main.Temp), nil
}
