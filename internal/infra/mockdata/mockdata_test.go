package mockdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vista-nav/internal/infra/mockdata"
)

func TestRecommendedRoutes_ReturnsCopies(t *testing.T) {
	first := mockdata.RecommendedRoutes()
	require.Len(t, first, 3)

	first[0].Title = "changed"
	first[0].Waypoints[0].Name = "changed"

	second := mockdata.RecommendedRoutes()
	assert.Equal(t, "제주 해안도로 드라이브", second[0].Title)
	assert.Equal(t, "제주공항", second[0].Waypoints[0].Name)
}

func TestRecommendedRoutes_Content(t *testing.T) {
	for _, r := range mockdata.RecommendedRoutes() {
		assert.NotEmpty(t, r.Waypoints, "route %d has no waypoints", r.ID)
		assert.GreaterOrEqual(t, r.SceneryScore, 0.0)
		assert.LessOrEqual(t, r.SceneryScore, 10.0)
	}
}

func TestNearbyPOIs_ReturnsCopies(t *testing.T) {
	pois := mockdata.NearbyPOIs()
	require.Len(t, pois, 2)
	pois[0].Category = "changed"

	assert.Equal(t, "cafe", mockdata.NearbyPOIs()[0].Category)
}
