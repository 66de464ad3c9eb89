package vistaapi

import (
	"encoding/json"

	"vista-nav/internal/domain"
)

type RoutePreferences struct {
	TravelStyle string            `json:"travel_style"`
	TimeOfDay   string            `json:"time_of_day"`
	Weather     string            `json:"weather"`
	Extra       map[string]string `json:"-"`
}

// MarshalJSON flattens Extra next to the well-known preference keys.
func (p RoutePreferences) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(p.Extra)+3)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["travel_style"] = p.TravelStyle
	m["time_of_day"] = p.TimeOfDay
	m["weather"] = p.Weather
	return json.Marshal(m)
}

type RouteRequest struct {
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Preferences RoutePreferences `json:"preferences"`
}

type RouteGeometry struct {
	Coordinates []domain.Coordinate `json:"coordinates"`
}

type RoutePOI struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	DistanceFromRoute float64 `json:"distance_from_route"`
}

type PhotoSpot struct {
	Coordinates  domain.Coordinate `json:"coordinates"`
	Description  string            `json:"description"`
	SceneryScore float64           `json:"scenery_score"`
}

type JejuFeatures struct {
	TotalSceneryScore float64     `json:"total_scenery_score"`
	RoutePOIs         []RoutePOI  `json:"route_pois"`
	VoiceNavigation   []string    `json:"voice_navigation"`
	BestPhotoSpots    []PhotoSpot `json:"best_photo_spots"`
}

type CalculatedRoute struct {
	Distance     float64       `json:"distance"`
	Duration     float64       `json:"duration"`
	Geometry     RouteGeometry `json:"geometry"`
	JejuFeatures JejuFeatures  `json:"jeju_features"`
}

type RouteResponse struct {
	Success         bool            `json:"success"`
	Route           CalculatedRoute `json:"route"`
	CalculationTime string          `json:"calculation_time"`
	Error           string          `json:"error,omitempty"`
}

type RecognitionResponse struct {
	Success        bool               `json:"success"`
	Result         domain.Recognition `json:"result"`
	ProcessingTime string             `json:"processing_time"`
	Error          string             `json:"error,omitempty"`
}

type TravelPlanRequest struct {
	Query           string             `json:"query"`
	CurrentLocation *domain.Coordinate `json:"current_location"`
	Context         string             `json:"context"`
}

type PlanWaypoint struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	EstimatedTime int    `json:"estimated_time"`
}

type TravelPlan struct {
	TravelStyle         string         `json:"travel_style"`
	RecommendedDuration string         `json:"recommended_duration"`
	Waypoints           []PlanWaypoint `json:"waypoints"`
	Description         string         `json:"description"`
}

type TravelPlanResponse struct {
	Success     bool       `json:"success"`
	Plan        TravelPlan `json:"plan"`
	GeneratedAt string     `json:"generated_at"`
	Error       string     `json:"error,omitempty"`
}

type POIQuery struct {
	Query    string
	Category string
	Location *domain.Coordinate
}

type POISearchResponse struct {
	Success    bool         `json:"success"`
	POIs       []domain.POI `json:"pois"`
	TotalCount int          `json:"total_count"`
	Error      string       `json:"error,omitempty"`
}

type RoutesResponse struct {
	Success bool           `json:"success"`
	Routes  []domain.Route `json:"routes"`
	Error   string         `json:"error,omitempty"`
}

type NavigationRequest struct {
	RouteID     int    `json:"route_id"`
	CurrentStep int    `json:"current_step"`
	Style       string `json:"style"`
}

// Document is used for endpoints whose payload the backend has not pinned
// down yet (traffic, weather, history, navigation speech).
type Document map[string]any

func (d Document) Success() bool {
	ok, _ := d["success"].(bool)
	return ok
}
