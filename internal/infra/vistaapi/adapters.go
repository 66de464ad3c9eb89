package vistaapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vista-nav/internal/domain"
	"vista-nav/internal/infra"
)

// RecommendedRoutes unwraps GetRecommendedRoutes, treating success=false as
// a transport failure so the screen falls back the same way for both.
func (c *Client) RecommendedRoutes(ctx context.Context, prefs map[string]string) ([]domain.Route, error) {
	resp, err := c.GetRecommendedRoutes(ctx, prefs)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &infra.TransportError{Op: "recommendations", Err: unsuccessful(resp.Error)}
	}
	if resp.Routes == nil {
		return []domain.Route{}, nil
	}
	return resp.Routes, nil
}

func (c *Client) NearbyPOIs(ctx context.Context, query, category string) ([]domain.POI, error) {
	resp, err := c.SearchPOI(ctx, POIQuery{Query: query, Category: category})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &infra.TransportError{Op: "POI search", Err: unsuccessful(resp.Error)}
	}
	if resp.POIs == nil {
		return []domain.POI{}, nil
	}
	return resp.POIs, nil
}

func (c *Client) RecordHistory(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := c.SaveTravelHistory(ctx, entry)
	return err
}

// RemoteRecognizer sends the captured artifact to the backend STT endpoint.
type RemoteRecognizer struct {
	client *Client
}

func NewRemoteRecognizer(client *Client) *RemoteRecognizer {
	return &RemoteRecognizer{client: client}
}

func (r *RemoteRecognizer) Name() string { return "remote" }

func (r *RemoteRecognizer) Recognize(ctx context.Context, ref domain.CaptureRef) (*domain.Recognition, error) {
	f, err := os.Open(ref.URI)
	if err != nil {
		return nil, fmt.Errorf("opening capture %s: %w", ref.URI, err)
	}
	defer f.Close()

	resp, err := r.client.RecognizeSpeech(ctx, filepath.Base(ref.URI), f)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &infra.TransportError{Op: "voice recognition", Err: unsuccessful(resp.Error)}
	}
	result := resp.Result
	if result.Intent == "" {
		result.Intent = domain.IntentUnknown
	}
	return &result, nil
}

func unsuccessful(msg string) error {
	if msg == "" {
		return errors.New("backend reported failure")
	}
	return fmt.Errorf("backend reported failure: %s", msg)
}
