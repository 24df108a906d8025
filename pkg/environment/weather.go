package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moremorelove/pkg/cache"
)

const (
	defaultWeatherBaseURL = "https://wttr.in"
	weatherFetchTimeout   = 8 * time.Second

	// Cached reports outlive the refresh window so stale data can still be
	// served when the upstream is down.
	weatherCacheTTL = 24 * time.Hour
)

// FailedWeatherDescription is what callers see when there is neither fresh
// nor cached data. The weather subsystem never propagates errors.
const FailedWeatherDescription = "weather unavailable right now"

// WeatherInfo is one weather report for a location.
type WeatherInfo struct {
	Location    string    `json:"location"`
	Description string    `json:"description"`
	TempC       *float64  `json:"temp_c,omitempty"`
	FeelsLikeC  *float64  `json:"feels_like_c,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Brief renders a short human-readable line, e.g. "Shanghai: Sunny 21.0°C".
func (w WeatherInfo) Brief() string {
	temp := ""
	if w.TempC != nil {
		temp = fmt.Sprintf(" %.1f°C", *w.TempC)
		if w.FeelsLikeC != nil && abs(*w.FeelsLikeC-*w.TempC) >= 1.5 {
			temp += fmt.Sprintf(" (feels like %.1f°C)", *w.FeelsLikeC)
		}
	}
	return fmt.Sprintf("%s: %s%s", w.Location, w.Description, temp)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Weather fetches reports from the public wttr.in JSON endpoint, caching the
// last successful report per location and serving stale cached data instead
// of propagating fetch failures.
type Weather struct {
	baseURL string
	refresh time.Duration
	client  *http.Client
	cache   cache.Cache
}

func NewWeather(store cache.Cache, refresh time.Duration) *Weather {
	if refresh < 10*time.Minute {
		refresh = 10 * time.Minute
	}
	return &Weather{
		baseURL: defaultWeatherBaseURL,
		refresh: refresh,
		client:  &http.Client{Timeout: weatherFetchTimeout},
		cache:   store,
	}
}

// Get returns the current report for a location. It never fails: a dead
// upstream degrades to the cached report, then to a fixed failure
// description.
func (w *Weather) Get(ctx context.Context, location string) WeatherInfo {
	loc := strings.TrimSpace(location)
	if loc == "" {
		loc = "Shanghai"
	}
	key := "weather:" + strings.ToLower(loc)

	cached, haveCached := w.cached(ctx, key)
	if haveCached && time.Since(cached.FetchedAt) < w.refresh {
		return cached
	}

	info, err := w.fetch(ctx, loc)
	if err != nil {
		log.Printf("environment: weather fetch for %q failed: %v", loc, err)
		if haveCached {
			return cached
		}
		return WeatherInfo{Location: loc, Description: FailedWeatherDescription}
	}

	if data, err := json.Marshal(info); err == nil {
		if err := w.cache.Set(ctx, key, string(data), weatherCacheTTL); err != nil {
			log.Printf("environment: weather cache write failed: %v", err)
		}
	}
	return info
}

func (w *Weather) cached(ctx context.Context, key string) (WeatherInfo, bool) {
	raw, err := w.cache.Get(ctx, key)
	if err != nil {
		return WeatherInfo{}, false
	}
	var info WeatherInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return WeatherInfo{}, false
	}
	return info, true
}

func (w *Weather) fetch(ctx context.Context, location string) (WeatherInfo, error) {
	endpoint := w.baseURL + "/" + url.PathEscape(location) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WeatherInfo{}, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return WeatherInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WeatherInfo{}, fmt.Errorf("weather endpoint status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return WeatherInfo{}, err
	}
	return parseWeather(location, body)
}

// wttr.in's j1 format reports numbers as strings.
type wttrPayload struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
}

func parseWeather(location string, body []byte) (WeatherInfo, error) {
	var payload wttrPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return WeatherInfo{}, fmt.Errorf("parse weather payload: %w", err)
	}
	if len(payload.CurrentCondition) == 0 || len(payload.CurrentCondition[0].WeatherDesc) == 0 {
		return WeatherInfo{}, fmt.Errorf("weather payload missing current condition")
	}

	current := payload.CurrentCondition[0]
	info := WeatherInfo{
		Location:    location,
		Description: current.WeatherDesc[0].Value,
		FetchedAt:   time.Now().UTC(),
	}
	if v, err := strconv.ParseFloat(current.TempC, 64); err == nil {
		info.TempC = &v
	}
	if v, err := strconv.ParseFloat(current.FeelsLikeC, 64); err == nil {
		info.FeelsLikeC = &v
	}
	return info, nil
}
