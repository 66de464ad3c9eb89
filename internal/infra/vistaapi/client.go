package vistaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vista-nav/internal/domain"
	"vista-nav/internal/infra"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 10 * time.Second
)

// Client talks to the VISTA backend. Every call is a single attempt; callers
// decide what to fall back to.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		headers:    h,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CalculateRoute(ctx context.Context, req RouteRequest) (*RouteResponse, error) {
	if req.Preferences.TravelStyle == "" {
		req.Preferences.TravelStyle = "scenic"
	}
	if req.Preferences.TimeOfDay == "" {
		req.Preferences.TimeOfDay = "morning"
	}
	if req.Preferences.Weather == "" {
		req.Preferences.Weather = "clear"
	}

	var out RouteResponse
	if err := c.doJSON(ctx, "route calculation", http.MethodPost, "/route/calculate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecognizeSpeech(ctx context.Context, filename string, audio io.Reader) (*RecognitionResponse, error) {
	const op = "voice recognition"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return nil, &infra.TransportError{Op: op, Err: fmt.Errorf("creating form file: %w", err)}
	}
	if _, err = io.Copy(part, audio); err != nil {
		return nil, &infra.TransportError{Op: op, Err: fmt.Errorf("writing audio: %w", err)}
	}
	if err = writer.Close(); err != nil {
		return nil, &infra.TransportError{Op: op, Err: fmt.Errorf("closing writer: %w", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/stt/recognize", nil, body)
	if err != nil {
		return nil, &infra.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out RecognitionResponse
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateTravelPlan(ctx context.Context, query string, current *domain.Coordinate) (*TravelPlanResponse, error) {
	payload := TravelPlanRequest{
		Query:           query,
		CurrentLocation: current,
		Context:         "jeju_tourism",
	}

	var out TravelPlanResponse
	if err := c.doJSON(ctx, "travel plan generation", http.MethodPost, "/llm/travel-plan", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchPOI(ctx context.Context, q POIQuery) (*POISearchResponse, error) {
	params := url.Values{}
	params.Set("q", q.Query)
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Location != nil {
		params.Set("lat", formatFloat(q.Location.Lat()))
		params.Set("lng", formatFloat(q.Location.Lng()))
	}

	var out POISearchResponse
	if err := c.doJSON(ctx, "POI search", http.MethodGet, "/poi/search", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecommendedRoutes(ctx context.Context, prefs map[string]string) (*RoutesResponse, error) {
	params := url.Values{}
	for k, v := range prefs {
		params.Set(k, v)
	}

	var out RoutesResponse
	if err := c.doJSON(ctx, "recommendations", http.MethodGet, "/recommendations/routes", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTrafficInfo(ctx context.Context, routeID string) (Document, error) {
	var out Document
	path := "/traffic/route/" + url.PathEscape(routeID)
	if err := c.doJSON(ctx, "traffic info", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWeatherInfo(ctx context.Context, at domain.Coordinate) (Document, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(at.Lat()))
	params.Set("lng", formatFloat(at.Lng()))

	var out Document
	if err := c.doJSON(ctx, "weather info", http.MethodGet, "/weather/current", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveTravelHistory(ctx context.Context, entry domain.HistoryEntry) (Document, error) {
	var out Document
	if err := c.doJSON(ctx, "save travel history", http.MethodPost, "/user/travel-history", nil, entry, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateVoiceNavigation(ctx context.Context, routeID, currentStep int) (Document, error) {
	payload := NavigationRequest{
		RouteID:     routeID,
		CurrentStep: currentStep,
		Style:       "friendly",
	}

	var out Document
	if err := c.doJSON(ctx, "voice navigation", http.MethodPost, "/tts/navigation", nil, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, params url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &infra.TransportError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, params, body)
	if err != nil {
		return &infra.TransportError{Op: op, Err: err}
	}
	return c.do(op, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &infra.TransportError{Op: op, Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	if err := infra.CheckStatus(resp); err != nil {
		return &infra.TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &infra.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
