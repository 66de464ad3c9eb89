package vistaapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vista-nav/internal/domain"
	"vista-nav/internal/infra/vistaapi"
)

func TestClient_GetRecommendedRoutes(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/recommendations/routes" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("travel_style")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"routes": []map[string]any{
				{
					"id": 4, "title": "한라산 등반코스", "duration": 480, "distance": 19.2,
					"difficulty": "hard", "scenery_score": 9.8, "icon": "trail-sign-outline",
					"waypoints": []map[string]any{
						{"name": "한라산 정상", "coordinates": []float64{126.5311, 33.3617}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL+"/api", time.Second, nil)

	resp, err := client.GetRecommendedRoutes(context.Background(), map[string]string{"travel_style": "hiking"})
	if err != nil {
		t.Fatalf("GetRecommendedRoutes error: %v", err)
	}

	if gotQuery != "hiking" {
		t.Errorf("travel_style param: got %q, want hiking", gotQuery)
	}
	if !resp.Success || len(resp.Routes) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	route := resp.Routes[0]
	if route.Difficulty != domain.DifficultyHard {
		t.Errorf("Difficulty: got %s, want hard", route.Difficulty)
	}
	if route.Duration() != 8*time.Hour {
		t.Errorf("Duration: got %s, want 8h", route.Duration())
	}
	if route.Waypoints[0].Coordinates.Lat() != 33.3617 {
		t.Errorf("Lat: got %f", route.Waypoints[0].Coordinates.Lat())
	}
}

func TestClient_TransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/recommendations/routes":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"error":"boom"}`))
		case "/api/weather/current":
			w.Write([]byte("not json"))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL+"/api", time.Second, nil)
	ctx := context.Background()

	if _, err := client.GetRecommendedRoutes(ctx, nil); !errors.Is(err, domain.ErrTransport) {
		t.Errorf("5xx: expected ErrTransport, got %v", err)
	}
	if _, err := client.GetWeatherInfo(ctx, domain.Coordinate{126.5, 33.4}); !errors.Is(err, domain.ErrTransport) {
		t.Errorf("bad body: expected ErrTransport, got %v", err)
	}
	if _, err := client.GetTrafficInfo(ctx, "1"); !errors.Is(err, domain.ErrTransport) {
		t.Errorf("404: expected ErrTransport, got %v", err)
	}
}

func TestClient_UnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := vistaapi.NewClient(url+"/api", 500*time.Millisecond, nil)

	_, err := client.RecommendedRoutes(context.Background(), nil)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClient_RecommendedRoutesUnsuccessful(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no data"})
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL, time.Second, nil)

	_, err := client.RecommendedRoutes(context.Background(), nil)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport for success=false, got %v", err)
	}
}

func TestClient_SuccessWithoutPayloadIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL, time.Second, nil)
	ctx := context.Background()

	routes, err := client.RecommendedRoutes(ctx, nil)
	if err != nil {
		t.Fatalf("recommended routes: %v", err)
	}
	if routes == nil || len(routes) != 0 {
		t.Errorf("routes: got %#v, want empty non-nil slice", routes)
	}

	pois, err := client.NearbyPOIs(ctx, "", "")
	if err != nil {
		t.Fatalf("nearby POIs: %v", err)
	}
	if pois == nil || len(pois) != 0 {
		t.Errorf("pois: got %#v, want empty non-nil slice", pois)
	}

	data, _ := json.Marshal(routes)
	if string(data) != "[]" {
		t.Errorf("routes JSON: got %s, want []", data)
	}
}

func TestClient_CalculateRouteDefaults(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type: got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Client") != "vista" {
			t.Errorf("X-Client header missing")
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"route": map[string]any{
				"distance": 25.4,
				"duration": 1800,
				"jeju_features": map[string]any{
					"voice_navigation": []string{"제주공항에서 출발합니다."},
				},
			},
		})
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL, time.Second, map[string]string{"X-Client": "vista"})

	resp, err := client.CalculateRoute(context.Background(), vistaapi.RouteRequest{
		Start: "제주공항",
		End:   "성산일출봉",
		Preferences: vistaapi.RoutePreferences{
			TimeOfDay: "evening",
			Extra:     map[string]string{"avoid": "tolls"},
		},
	})
	if err != nil {
		t.Fatalf("CalculateRoute error: %v", err)
	}

	prefs, _ := got["preferences"].(map[string]any)
	want := map[string]string{"travel_style": "scenic", "time_of_day": "evening", "weather": "clear", "avoid": "tolls"}
	for k, v := range want {
		if prefs[k] != v {
			t.Errorf("preferences[%s]: got %v, want %s", k, prefs[k], v)
		}
	}

	if resp.Route.Distance != 25.4 {
		t.Errorf("Distance: got %f", resp.Route.Distance)
	}
	if len(resp.Route.JejuFeatures.VoiceNavigation) != 1 {
		t.Errorf("voice navigation lines: got %d", len(resp.Route.JejuFeatures.VoiceNavigation))
	}
}

func TestClient_SearchPOIParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "카페" || q.Get("category") != "cafe" || q.Get("lat") != "33.4615" || q.Get("lng") != "126.3324" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"pois":        []map[string]any{{"id": 1, "name": "오션뷰 에메 카페", "category": "cafe"}},
			"total_count": 1,
		})
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL, time.Second, nil)
	loc := domain.Coordinate{126.3324, 33.4615}

	resp, err := client.SearchPOI(context.Background(), vistaapi.POIQuery{Query: "카페", Category: "cafe", Location: &loc})
	if err != nil {
		t.Fatalf("SearchPOI error: %v", err)
	}
	if resp.TotalCount != 1 || resp.POIs[0].Category != domain.CategoryCafe {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClient_JSONEndpoints(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := vistaapi.NewClient(server.URL, time.Second, nil)
	ctx := context.Background()

	if _, err := client.GenerateTravelPlan(ctx, "바다 보이는 길", nil); err != nil {
		t.Fatalf("GenerateTravelPlan: %v", err)
	}
	doc, err := client.GetTrafficInfo(ctx, "2")
	if err != nil || !doc.Success() {
		t.Fatalf("GetTrafficInfo: %v %v", doc, err)
	}
	if err := client.RecordHistory(ctx, domain.HistoryEntry{ID: "h1", Query: "카페"}); err != nil {
		t.Fatalf("RecordHistory: %v", err)
	}
	if _, err := client.GenerateVoiceNavigation(ctx, 1, 2); err != nil {
		t.Fatalf("GenerateVoiceNavigation: %v", err)
	}

	want := []string{
		"POST /llm/travel-plan",
		"GET /traffic/route/2",
		"POST /user/travel-history",
		"POST /tts/navigation",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths: got %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("request %d: got %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestRemoteRecognizer_Recognize(t *testing.T) {
	clip := []byte("RIFF....WAVEfmt fake clip")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stt/recognize" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("reading form file: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if !bytes.Equal(data, clip) {
			t.Errorf("uploaded audio mismatch")
		}
		if header.Filename != "capture.wav" {
			t.Errorf("filename: got %s", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": map[string]any{
				"text":       "카페 추천해주세요",
				"intent":     "poi_search",
				"entities":   map[string]string{"category": "cafe", "location": "current"},
				"confidence": 0.88,
			},
		})
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "capture.wav")
	if err := os.WriteFile(path, clip, 0644); err != nil {
		t.Fatalf("writing clip: %v", err)
	}

	recognizer := vistaapi.NewRemoteRecognizer(vistaapi.NewClient(server.URL, time.Second, nil))

	rec, err := recognizer.Recognize(context.Background(), domain.CaptureRef{URI: path})
	if err != nil {
		t.Fatalf("Recognize error: %v", err)
	}
	if rec.Intent != domain.IntentPOISearch {
		t.Errorf("Intent: got %s, want poi_search", rec.Intent)
	}
	if rec.Entity(domain.EntityCategory) != "cafe" {
		t.Errorf("category entity: got %q", rec.Entity(domain.EntityCategory))
	}
}
