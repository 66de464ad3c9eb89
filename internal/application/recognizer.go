package application

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"vista-nav/internal/domain"
)

var mockRecognitions = []domain.Recognition{
	{
		Text:   "제주공항에서 성산일출봉까지 경치 좋은 길로 안내해주세요",
		Intent: domain.IntentRouteNavigation,
		Entities: map[string]string{
			domain.EntityStart:       "제주공항",
			domain.EntityDestination: "성산일출봉",
			domain.EntityPreference:  "scenic_route",
		},
	},
	{
		Text:   "카페 추천해주세요",
		Intent: domain.IntentPOISearch,
		Entities: map[string]string{
			domain.EntityCategory: domain.CategoryCafe,
			domain.EntityLocation: "current",
		},
	},
	{
		Text:   "바다 보이는 식당 찾아주세요",
		Intent: domain.IntentPOISearch,
		Entities: map[string]string{
			domain.EntityCategory:   domain.CategoryRestaurant,
			domain.EntityPreference: "ocean_view",
		},
	},
}

// MockRecognizer ignores the audio and returns one of three canned results
// chosen uniformly at random.
type MockRecognizer struct {
	pick   func(n int) int
	logger *slog.Logger
}

func NewMockRecognizer(logger *slog.Logger) *MockRecognizer {
	return &MockRecognizer{pick: rand.IntN, logger: logger}
}

// NewMockRecognizerWithPicker is used by tests to make the choice deterministic.
func NewMockRecognizerWithPicker(pick func(n int) int, logger *slog.Logger) *MockRecognizer {
	return &MockRecognizer{pick: pick, logger: logger}
}

func (m *MockRecognizer) Name() string { return "mock" }

func (m *MockRecognizer) Recognize(_ context.Context, ref domain.CaptureRef) (*domain.Recognition, error) {
	base := mockRecognitions[m.pick(len(mockRecognitions))]

	result := base
	result.Entities = make(map[string]string, len(base.Entities))
	for k, v := range base.Entities {
		result.Entities[k] = v
	}

	m.logger.Info("mock recognition", "capture", ref.URI, "text", result.Text, "intent", result.Intent)
	return &result, nil
}
