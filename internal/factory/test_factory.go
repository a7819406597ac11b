package factory

import (
	"time"

	"github.com/mkarpov/giftcircle/internal/dependencies/mocks"
	"github.com/mkarpov/giftcircle/internal/storage/memory"
	"github.com/mkarpov/giftcircle/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing: in-memory storage, a
// frozen clock, and queued randomness, so full flows run deterministically.
func NewTestApp() (*TestApp, error) {
	mockClock := mocks.NewMockClock(time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app, err := newWithDependencies(memory.New(), mockClock, mockRandom, DefaultAdminLogin, DefaultAdminPassword, testutil.NopLogger())
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
