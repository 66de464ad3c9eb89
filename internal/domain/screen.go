package domain

type Tab string

const (
	TabHome      Tab = "Home"
	TabRecommend Tab = "Recommend"
	TabMyTrips   Tab = "My Trips"
	TabProfile   Tab = "Profile"
)

var Tabs = []Tab{TabHome, TabRecommend, TabMyTrips, TabProfile}

func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Dialog is a modal alert shown over the screen until dismissed.
type Dialog struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// HistoryEntry is what gets recorded to the user's travel history.
type HistoryEntry struct {
	ID        string            `json:"id"`
	Query     string            `json:"query"`
	Intent    Intent            `json:"intent"`
	Entities  map[string]string `json:"entities,omitempty"`
	RouteIDs  []int             `json:"route_ids,omitempty"`
	CreatedAt string            `json:"created_at"`
}
