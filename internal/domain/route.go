package domain

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Coordinate is a [lng, lat] pair, the order the backend uses on the wire.
type Coordinate [2]float64

func (c Coordinate) Lng() float64 { return c[0] }
func (c Coordinate) Lat() float64 { return c[1] }

type Waypoint struct {
	Name        string     `json:"name"`
	Coordinates Coordinate `json:"coordinates"`
}

type Route struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	DurationMin  int        `json:"duration"`
	DistanceKm   float64    `json:"distance"`
	Difficulty   Difficulty `json:"difficulty"`
	SceneryScore float64    `json:"scenery_score"`
	ImageURL     string     `json:"image_url,omitempty"`
	Icon         string     `json:"icon"`
	Waypoints    []Waypoint `json:"waypoints"`
}

func (r Route) Duration() time.Duration {
	return time.Duration(r.DurationMin) * time.Minute
}

type POI struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Rating      float64    `json:"rating"`
	DistanceKm  float64    `json:"distance"`
	Coordinates Coordinate `json:"coordinates"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url,omitempty"`
}

const (
	CategoryCafe       = "cafe"
	CategoryRestaurant = "restaurant"
	CategoryAttraction = "tourist_attraction"
)
