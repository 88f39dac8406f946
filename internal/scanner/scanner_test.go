package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/alejandrodnm/surebet/internal/domain/strategy"
	"github.com/alejandrodnm/surebet/internal/ports"
	"github.com/alejandrodnm/surebet/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockEventProvider struct {
	events []domain.Event
	err    error
	calls  int
}

func (m *mockEventProvider) FetchEvents(_ context.Context) ([]domain.Event, error) {
	m.calls++
	return m.events, m.err
}

type mockNotifier struct {
	notified []domain.Opportunity
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, opps []domain.Opportunity) error {
	m.notified = opps
	return m.err
}

type mockStorage struct {
	saved []domain.Opportunity
	err   error
}

func (m *mockStorage) SaveScan(_ context.Context, opps []domain.Opportunity) error {
	m.saved = opps
	return m.err
}

func (m *mockStorage) GetHistory(_ context.Context, _, _ time.Time) ([]domain.Opportunity, error) {
	return nil, nil
}

func (m *mockStorage) Close() error { return nil }

type failingSeenStore struct{}

func (failingSeenStore) Seen(_ context.Context, _ string) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingSeenStore) Mark(_ context.Context, _ ...string) error {
	return errors.New("connection refused")
}

// --- helpers ---

func book(site string, home, draw, away float64) domain.BookmakerOdds {
	p := func(v float64) domain.Price {
		if v == 0 {
			return domain.NoPrice()
		}
		return domain.NewPrice(v)
	}
	return domain.BookmakerOdds{Site: site, Home: p(home), Draw: p(draw), Away: p(away)}
}

// arbEvent tiene mejores cuotas [2.10, 2.05]: arbitraje con ~3.6% de margen.
func arbEvent(id string) domain.Event {
	return domain.Event{
		ID:       id,
		Sport:    "tennis_atp",
		HomeTeam: "Alcaraz",
		AwayTeam: "Sinner",
		Bookmakers: []domain.BookmakerOdds{
			book("pinnacle", 2.10, 0, 1.80),
			book("betfair", 1.90, 0, 2.05),
		},
	}
}

// flatEvent no tiene arbitraje: [1.90, 1.90].
func flatEvent(id string) domain.Event {
	return domain.Event{
		ID:       id,
		Sport:    "soccer_epl",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Bookmakers: []domain.BookmakerOdds{
			book("pinnacle", 1.90, 0, 1.85),
			book("betfair", 1.85, 0, 1.90),
		},
	}
}

func newTestScanner(ep ports.EventProvider, n ports.Notifier, s ports.Storage, seen ports.SeenStore) *scanner.Scanner {
	cfg := scanner.DefaultConfig()
	cfg.AnalysisWorkers = 2
	cfg.DryRun = true
	return scanner.New(cfg, ep, s, n, seen, strategy.NewSureBet(strategy.SureBetConfig{Bankroll: 100}))
}

// --- tests ---

func TestScanner_RunOnce_Success(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{flatEvent("e2"), arbEvent("e1")}}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, opps, 2)

	// arbitraje primero
	assert.Equal(t, "e1", opps[0].Event.ID)
	assert.True(t, opps[0].IsArbitrage())
	assert.InDelta(t, 3.73, opps[0].Result.Profit, 0.01)
	assert.Equal(t, []string{"pinnacle", "betfair"}, opps[0].Best.Bookmakers)

	assert.Equal(t, "e2", opps[1].Event.ID)
	assert.False(t, opps[1].IsArbitrage())

	assert.NotEmpty(t, opps[0].ScanID)
	assert.Equal(t, opps[0].ScanID, opps[1].ScanID, "same cycle shares scan id")
}

func TestScanner_RunOnce_FetchError(t *testing.T) {
	ep := &mockEventProvider{err: errors.New("network down")}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	_, err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}

func TestScanner_RunOnce_SkipsSeenEvents(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1")}}
	seen := scanner.NewMemorySeenStore()

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, seen)

	first, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, seen.Len())

	second, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestScanner_RunOnce_DuplicateIDsInFeed(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1"), arbEvent("e1")}}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Len(t, opps, 1)
}

func TestScanner_RunOnce_SeenStoreErrorTreatsAsNew(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1")}}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, failingSeenStore{})
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Len(t, opps, 1)
}

func TestScanner_RunOnce_SkipsFewBookmakers(t *testing.T) {
	single := arbEvent("solo")
	single.Bookmakers = single.Bookmakers[:1]
	ep := &mockEventProvider{events: []domain.Event{single, flatEvent("e2")}}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "e2", opps[0].Event.ID)
}

func TestScanner_RunOnce_SkipsInsufficientData(t *testing.T) {
	broken := domain.Event{
		ID: "broken",
		Bookmakers: []domain.BookmakerOdds{
			book("pinnacle", 2.0, 0, 0),
			book("betfair", 2.1, 0, 0),
		},
	}
	ep := &mockEventProvider{events: []domain.Event{broken, arbEvent("e1")}}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	opps, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "e1", opps[0].Event.ID)
}

func TestScanner_RunOnce_OnlyArbitrage(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{flatEvent("e2"), arbEvent("e1")}}

	cfg := scanner.DefaultConfig()
	cfg.Filter.OnlyArbitrage = true
	s := scanner.New(cfg, ep, &mockStorage{}, &mockNotifier{}, nil, strategy.NewSureBet(strategy.SureBetConfig{}))

	opps, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "e1", opps[0].Event.ID)
}

func TestScanner_Run_DryRunNotifiesAndSaves(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1")}}
	notifier := &mockNotifier{}
	storage := &mockStorage{}

	s := newTestScanner(ep, notifier, storage, nil)
	err := s.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, ep.calls)
	require.Len(t, notifier.notified, 1)
	require.Len(t, storage.saved, 1)
	assert.Equal(t, "e1", storage.saved[0].Event.ID)
}

func TestScanner_Run_NotifierErrorDoesNotFail(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1")}}
	notifier := &mockNotifier{err: errors.New("tty closed")}
	storage := &mockStorage{}

	s := newTestScanner(ep, notifier, storage, nil)
	err := s.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, storage.saved, 1, "storage still runs after notifier error")
}

func TestScanner_Run_NilStorage(t *testing.T) {
	ep := &mockEventProvider{events: []domain.Event{arbEvent("e1")}}
	notifier := &mockNotifier{}

	s := newTestScanner(ep, notifier, nil, nil)
	require.NoError(t, s.Run(context.Background()))
	assert.Len(t, notifier.notified, 1)
}

func TestScanner_Run_DryRunPropagatesFetchError(t *testing.T) {
	ep := &mockEventProvider{err: errors.New("boom")}

	s := newTestScanner(ep, &mockNotifier{}, &mockStorage{}, nil)
	assert.Error(t, s.Run(context.Background()))
}

func TestScanner_Run_StopsOnCancel(t *testing.T) {
	ep := &mockEventProvider{}
	cfg := scanner.DefaultConfig()
	cfg.ScanInterval = time.Hour
	s := scanner.New(cfg, ep, nil, &mockNotifier{}, nil, strategy.NewSureBet(strategy.SureBetConfig{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop after cancel")
	}
}
