package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the OpenWeatherMap current-weather and direct-geocoding endpoints
type Client struct {
	apiKey     string
	weatherURL string
	geoURL     string
	units      string
	httpClient *http.Client
}

// Options configures a Client. Zero values fall back to the public endpoints.
type Options struct {
	APIKey     string
	WeatherURL string
	GeoURL     string
	Units      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// StatusError is returned for any non-2xx response
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Body)
}

// New creates a client
func New(opts Options) *Client {
	c := &Client{
		apiKey:     opts.APIKey,
		weatherURL: opts.WeatherURL,
		geoURL:     opts.GeoURL,
		units:      opts.Units,
		httpClient: opts.HTTPClient,
	}
	if c.weatherURL == "" {
		c.weatherURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	if c.geoURL == "" {
		c.geoURL = "https://api.openweathermap.org/geo/1.0/direct"
	}
	if c.units == "" {
		c.units = "metric"
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// CurrentByName fetches current conditions for a place name
func (c *Client) CurrentByName(ctx context.Context, name string) (*Current, error) {
	params := url.Values{}
	params.Set("q", name)
	return c.current(ctx, params)
}

// CurrentByCoordinates fetches current conditions for a point
func (c *Client) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*Current, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.current(ctx, params)
}

func (c *Client) current(ctx context.Context, params url.Values) (*Current, error) {
	params.Set("units", c.units)
	params.Set("appid", c.apiKey)

	var result Current
	if err := c.getJSON(ctx, c.weatherURL, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Direct geocodes a free-text query, returning at most limit places
func (c *Client) Direct(ctx context.Context, query string, limit int) ([]Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", c.apiKey)

	var results []Place
	if err := c.getJSON(ctx, c.geoURL, params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values, out any) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", base, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("request to %s failed: %w", base, uerr.Err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
