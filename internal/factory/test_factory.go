package factory

import (
	"time"

	"github.com/mcoot/gccache/internal/dependencies/mocks"
	"github.com/mcoot/gccache/internal/model"
	remotememory "github.com/mcoot/gccache/internal/remote/memory"
	"github.com/mcoot/gccache/internal/session"
	"github.com/mcoot/gccache/internal/storage/memory"
	"github.com/mcoot/gccache/internal/testutil"
)

// TestPlayer is the identity the test remote service authenticates as
var TestPlayer = model.Profile{PlayerID: "G:1", Name: "Alice"}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MockRemote  *remotememory.Service
	MemoryStore *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a test App over existing storage, to simulate a restart
func NewTestAppWithStorage(store *memory.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockRemote := remotememory.New(TestPlayer)

	app := newWithDependencies(store, mockRemote, mockClock, mockRandom, session.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MockRemote:  mockRemote,
		MemoryStore: store,
	}
}

// RegisterTestCatalog registers a small achievement and leaderboard catalog
func (t *TestApp) RegisterTestCatalog() {
	t.Catalog.RegisterAchievements([]string{"first_blood", "explorer", "completionist"})
	t.Catalog.RegisterLeaderboards([]model.Leaderboard{
		{ID: "hiscore", Order: model.SortDescending},
		{ID: "fastest", Order: model.SortAscending},
	})
	t.MockRemote.SetOrder("fastest", model.SortAscending)
}
