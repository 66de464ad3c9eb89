package domain

type Intent string

const (
	IntentRouteNavigation Intent = "route_navigation"
	IntentPOISearch       Intent = "poi_search"
	IntentUnknown         Intent = "unknown"
)

// Entity keys produced by recognizers.
const (
	EntityStart       = "start"
	EntityDestination = "destination"
	EntityCategory    = "category"
	EntityLocation    = "location"
	EntityPreference  = "preference"
)

type Recognition struct {
	Text       string            `json:"text"`
	Intent     Intent            `json:"intent"`
	Entities   map[string]string `json:"entities"`
	Confidence float64           `json:"confidence,omitempty"`
}

func (r *Recognition) Entity(key string) string {
	if r == nil || r.Entities == nil {
		return ""
	}
	return r.Entities[key]
}
