package mock_test

import (
	"context"
	"testing"

	"github.com/alejandrodnm/surebet/internal/adapters/mock"
	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_EventShape(t *testing.T) {
	g := mock.NewGenerator(mock.Config{Seed: 42, PerCycle: 50})

	events, err := g.FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 50)

	ids := make(map[string]bool)
	for _, ev := range events {
		assert.False(t, ids[ev.ID], "duplicate id %s", ev.ID)
		ids[ev.ID] = true

		assert.NotEqual(t, ev.HomeTeam, ev.AwayTeam)
		assert.False(t, ev.HasDraw())
		require.Len(t, ev.Bookmakers, 2)

		a, b := ev.Bookmakers[0], ev.Bookmakers[1]
		assert.Equal(t, "Betfair", a.Site)
		assert.Equal(t, "Pinnacle", b.Site)
		assert.False(t, a.Away.Present())
		assert.False(t, b.Home.Present())

		home, ok := a.Home.Get()
		require.True(t, ok)
		away, ok := b.Away.Get()
		require.True(t, ok)
		for _, p := range []float64{home, away} {
			assert.GreaterOrEqual(t, p, 1.7)
			assert.LessOrEqual(t, p, 2.5)
			assert.InDelta(t, p, float64(int(p*100+0.5))/100, 1e-9, "two decimals")
		}
	}
}

func TestGenerator_SeedIsDeterministic(t *testing.T) {
	g1 := mock.NewGenerator(mock.Config{Seed: 7, PerCycle: 3})
	g2 := mock.NewGenerator(mock.Config{Seed: 7, PerCycle: 3})

	e1, err := g1.FetchEvents(context.Background())
	require.NoError(t, err)
	e2, err := g2.FetchEvents(context.Background())
	require.NoError(t, err)

	for i := range e1 {
		assert.Equal(t, e1[i].ID, e2[i].ID)
		assert.Equal(t, e1[i].Bookmakers, e2[i].Bookmakers)
	}
}

func TestGenerator_EventsAreAnalyzable(t *testing.T) {
	g := mock.NewGenerator(mock.Config{Seed: 1, PerCycle: 20})
	events, err := g.FetchEvents(context.Background())
	require.NoError(t, err)

	for _, ev := range events {
		best, err := domain.BestOddsFor(ev)
		require.NoError(t, err)
		assert.Equal(t, []string{"Betfair", "Pinnacle"}, best.Bookmakers)
	}
}

func TestGenerator_CustomConfig(t *testing.T) {
	g := mock.NewGenerator(mock.Config{
		Seed:       3,
		Teams:      []string{"Ajax", "PSV"},
		Bookmakers: [2]string{"A", "B"},
		MinPrice:   2.0,
		MaxPrice:   2.0,
		PerCycle:   1,
	})

	ev, err := g.Next()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ajax", "PSV"}, []string{ev.HomeTeam, ev.AwayTeam})

	odds, err := domain.BestOddsFor(ev)
	require.NoError(t, err)
	assert.Equal(t, domain.OddsVector{2.0, 2.0}, odds.Odds)
}

func TestGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.NewGenerator(mock.Config{Seed: 1}).FetchEvents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
