// Package mockdata holds the hand-authored fallback content shown when the
// backend is unreachable.
package mockdata

import "vista-nav/internal/domain"

var recommendedRoutes = []domain.Route{
	{
		ID:           1,
		Title:        "제주 해안도로 드라이브",
		Subtitle:     "푸른 바다와 함께 달리는 환상적인 코스",
		DurationMin:  180,
		DistanceKm:   45.2,
		Difficulty:   domain.DifficultyEasy,
		SceneryScore: 9.5,
		ImageURL:     "https://images.unsplash.com/photo-1544273677-6aaf4f6a10e4?w=400&h=300&fit=crop&auto=format",
		Icon:         "car-outline",
		Waypoints: []domain.Waypoint{
			{Name: "제주공항", Coordinates: domain.Coordinate{126.4933, 33.5066}},
			{Name: "애월해안도로", Coordinates: domain.Coordinate{126.3324, 33.4615}},
			{Name: "한림공원", Coordinates: domain.Coordinate{126.2411, 33.4154}},
			{Name: "협재해수욕장", Coordinates: domain.Coordinate{126.2396, 33.3940}},
		},
	},
	{
		ID:           2,
		Title:        "성산일출봉 + 우도 투어",
		Subtitle:     "일출 명소와 아름다운 섬 여행",
		DurationMin:  240,
		DistanceKm:   32.1,
		Difficulty:   domain.DifficultyMedium,
		SceneryScore: 10.0,
		ImageURL:     "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop&auto=format",
		Icon:         "mountain-outline",
		Waypoints: []domain.Waypoint{
			{Name: "성산일출봉", Coordinates: domain.Coordinate{126.9423, 33.4586}},
			{Name: "우도선착장", Coordinates: domain.Coordinate{126.9513, 33.5069}},
			{Name: "우도 해안도로", Coordinates: domain.Coordinate{126.9545, 33.5025}},
		},
	},
	{
		ID:           3,
		Title:        "오션뷰 에메 카페",
		Subtitle:     "인생샷 남기는 감성 카페, 바다 전망 최고",
		DurationMin:  90,
		DistanceKm:   12.5,
		Difficulty:   domain.DifficultyEasy,
		SceneryScore: 8.8,
		ImageURL:     "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=400&h=300&fit=crop&auto=format",
		Icon:         "cafe-outline",
		Waypoints: []domain.Waypoint{
			{Name: "애월읍", Coordinates: domain.Coordinate{126.3324, 33.4615}},
			{Name: "한림해변카페거리", Coordinates: domain.Coordinate{126.2400, 33.4100}},
		},
	},
}

var nearbyPOIs = []domain.POI{
	{
		ID:          1,
		Name:        "오션뷰 에메 카페",
		Category:    domain.CategoryCafe,
		Rating:      4.8,
		DistanceKm:  2.3,
		Coordinates: domain.Coordinate{126.3324, 33.4615},
		Description: "인생샷 남기는 감성 카페, 바다 전망 최고",
	},
	{
		ID:          2,
		Name:        "제주 흑돼지 맛집",
		Category:    domain.CategoryRestaurant,
		Rating:      4.6,
		DistanceKm:  1.8,
		Coordinates: domain.Coordinate{126.5312, 33.3617},
		Description: "현지인 추천 제주 특산품 요리",
	},
}

// RecommendedRoutes returns a copy of the static route list.
func RecommendedRoutes() []domain.Route {
	out := make([]domain.Route, len(recommendedRoutes))
	for i, r := range recommendedRoutes {
		r.Waypoints = append([]domain.Waypoint(nil), r.Waypoints...)
		out[i] = r
	}
	return out
}

// NearbyPOIs returns a copy of the static POI list.
func NearbyPOIs() []domain.POI {
	out := make([]domain.POI, len(nearbyPOIs))
	copy(out, nearbyPOIs)
	return out
}

// Provider exposes the static collections through the screen's fallback
// interface.
type Provider struct{}

func (Provider) RecommendedRoutes() []domain.Route { return RecommendedRoutes() }
func (Provider) NearbyPOIs() []domain.POI          { return NearbyPOIs() }
