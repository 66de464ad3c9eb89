package application

import (
	"strings"

	"vista-nav/internal/domain"
)

// CoastalKeyword is always matched by route requests, whatever the destination.
const CoastalKeyword = "해안도로"

// FilterRoutes keeps routes whose title mentions the recognized destination
// or the coastal keyword. The result is never nil.
func FilterRoutes(routes []domain.Route, rec *domain.Recognition) []domain.Route {
	dest := strings.TrimSpace(rec.Entity(domain.EntityDestination))

	out := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if (dest != "" && strings.Contains(r.Title, dest)) || strings.Contains(r.Title, CoastalKeyword) {
			out = append(out, r)
		}
	}
	return out
}

// FilterPOIs keeps POIs whose category equals the recognized category.
func FilterPOIs(pois []domain.POI, rec *domain.Recognition) []domain.POI {
	category := rec.Entity(domain.EntityCategory)

	out := make([]domain.POI, 0, len(pois))
	for _, p := range pois {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SearchPOIs mirrors the backend's POI search over a local collection: exact
// category, then case-insensitive name substring. Empty arguments match all.
func SearchPOIs(pois []domain.POI, query, category string) []domain.POI {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.POI, 0, len(pois))
	for _, p := range pois {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
