package factory

import (
	"time"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/mocks"
	"github.com/CuteLittleSky/LimboAuth/internal/storage/memory"
	"github.com/CuteLittleSky/LimboAuth/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockScheduler *mocks.MockScheduler
	MockOracle    *mocks.MockOracle
	Memory        *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(settings config.Settings) *TestApp {
	if settings.BcryptCost == 0 {
		settings = config.DefaultSettings()
	}

	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockScheduler := mocks.NewMockScheduler()
	mockOracle := mocks.NewMockOracle()

	memCfg := memory.DefaultConfig()
	memCfg.FailureTTL = settings.FailureCacheTTL
	store := memory.New(mockClock, memCfg)

	app := newWithDependencies(store, mockClock, mockScheduler, mockOracle, settings, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockScheduler: mockScheduler,
		MockOracle:    mockOracle,
		Memory:        store,
	}
}
