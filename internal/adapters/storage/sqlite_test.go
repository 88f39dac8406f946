package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/surebet/internal/adapters/storage"
	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeOpportunity(t *testing.T, id string, home, away float64) domain.Opportunity {
	t.Helper()
	ev := domain.Event{
		ID:           id,
		Sport:        "ATP",
		HomeTeam:     "Alcaraz",
		AwayTeam:     "Sinner",
		CommenceTime: time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC),
		Bookmakers: []domain.BookmakerOdds{
			{Site: "Pinnacle", Home: domain.NewPrice(home), Draw: domain.NoPrice(), Away: domain.NewPrice(1.70)},
			{Site: "Betfair", Home: domain.NewPrice(1.70), Draw: domain.NoPrice(), Away: domain.NewPrice(away)},
		},
	}
	best, err := domain.BestOddsFor(ev)
	require.NoError(t, err)
	res, err := domain.Evaluate(best.Odds, 100)
	require.NoError(t, err)

	return domain.Opportunity{
		ScanID:    "scan-1",
		Event:     ev,
		Best:      best,
		Result:    res,
		ScannedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func newDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStorage_SaveAndGetHistory(t *testing.T) {
	db := newDB(t)

	opps := []domain.Opportunity{
		makeOpportunity(t, "flat", 1.90, 1.90),
		makeOpportunity(t, "arb", 2.10, 2.05),
	}
	require.NoError(t, db.SaveScan(context.Background(), opps))

	from := time.Now().UTC().Add(-time.Minute)
	to := time.Now().UTC().Add(time.Minute)
	history, err := db.GetHistory(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// arbitrajes primero
	assert.Equal(t, "arb", history[0].Event.ID)
	assert.True(t, history[0].IsArbitrage())
	assert.InDelta(t, opps[1].Result.Profit, history[0].Result.Profit, 1e-9)
	assert.Equal(t, "flat", history[1].Event.ID)
	assert.False(t, history[1].IsArbitrage())
}

func TestSQLiteStorage_RoundTripKeepsAbsentPrices(t *testing.T) {
	db := newDB(t)
	opp := makeOpportunity(t, "arb", 2.10, 2.05)
	require.NoError(t, db.SaveScan(context.Background(), []domain.Opportunity{opp}))

	got, err := db.GetEvent(context.Background(), "arb")
	require.NoError(t, err)

	assert.Equal(t, "[ATP] Alcaraz vs Sinner", got.Event.Name())
	assert.True(t, opp.Event.CommenceTime.Equal(got.Event.CommenceTime))
	require.Len(t, got.Event.Bookmakers, 2)
	assert.False(t, got.Event.Bookmakers[0].Draw.Present())
	assert.False(t, got.Event.HasDraw())
	assert.Equal(t, opp.Best.Bookmakers, got.Best.Bookmakers)
	assert.Equal(t, opp.Best.Outcomes, got.Best.Outcomes)
	assert.InDeltaSlice(t, opp.Result.Stakes, got.Result.Stakes, 1e-9)
}

func TestSQLiteStorage_GetEventNotFound(t *testing.T) {
	db := newDB(t)

	_, err := db.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLiteStorage_GetArbitrages(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveScan(ctx, []domain.Opportunity{
		makeOpportunity(t, "small", 2.05, 2.00),
		makeOpportunity(t, "flat", 1.90, 1.90),
		makeOpportunity(t, "big", 2.20, 2.10),
	}))

	arbs, err := db.GetArbitrages(ctx)
	require.NoError(t, err)
	require.Len(t, arbs, 2)
	assert.Equal(t, "big", arbs[0].Event.ID)
	assert.Equal(t, "small", arbs[1].Event.ID)
}

func TestSQLiteStorage_SaveEmptySlice(t *testing.T) {
	db := newDB(t)

	err := db.SaveScan(context.Background(), nil)
	assert.NoError(t, err)
}

func TestSQLiteStorage_GetHistory_EmptyRange(t *testing.T) {
	db := newDB(t)

	history, err := db.GetHistory(context.Background(),
		time.Now().Add(-time.Hour),
		time.Now(),
	)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSQLiteStorage_UpsertByEventID(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveScan(ctx, []domain.Opportunity{makeOpportunity(t, "e1", 1.90, 1.90)}))
	require.NoError(t, db.SaveScan(ctx, []domain.Opportunity{
		makeOpportunity(t, "e1", 2.10, 2.05),
		makeOpportunity(t, "e2", 1.80, 1.80),
	}))

	history, err := db.GetHistory(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, history, 2)

	got, err := db.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, got.IsArbitrage(), "second scan overwrites the first")
}
