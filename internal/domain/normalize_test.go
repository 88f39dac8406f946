package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(site string, home, draw, away float64) BookmakerOdds {
	p := func(v float64) Price {
		if v == 0 {
			return NoPrice()
		}
		return NewPrice(v)
	}
	return BookmakerOdds{Site: site, Home: p(home), Draw: p(draw), Away: p(away)}
}

func TestBestOddsFor_ThreeWay(t *testing.T) {
	ev := Event{ID: "e1", Bookmakers: []BookmakerOdds{
		book("A", 2.10, 3.20, 3.50),
		book("B", 2.30, 3.10, 3.40),
		book("C", 2.00, 3.60, 3.55),
	}}

	best, err := BestOddsFor(ev)
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Home, Draw, Away}, best.Outcomes)
	assert.Equal(t, OddsVector{2.30, 3.60, 3.55}, best.Odds)
	assert.Equal(t, []string{"B", "C", "C"}, best.Bookmakers)
	assert.Equal(t, 3.60, best.OddsFor(Draw))
	assert.Equal(t, "B", best.BookmakerFor(Home))
}

func TestBestOddsFor_TwoWayWhenNoDraw(t *testing.T) {
	ev := Event{ID: "e2", Bookmakers: []BookmakerOdds{
		book("Betfair", 2.10, 0, 0),
		book("Pinnacle", 0, 0, 2.05),
	}}

	best, err := BestOddsFor(ev)
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Home, Away}, best.Outcomes)
	assert.Equal(t, OddsVector{2.10, 2.05}, best.Odds)
	assert.Equal(t, 0.0, best.OddsFor(Draw))
}

func TestBestOddsFor_TieKeepsFirstBookmaker(t *testing.T) {
	ev := Event{ID: "e3", Bookmakers: []BookmakerOdds{
		book("A", 2.0, 0, 1.9),
		book("B", 2.0, 0, 1.9),
	}}
	best, err := BestOddsFor(ev)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A"}, best.Bookmakers)
}

func TestBestOddsFor_InsufficientData(t *testing.T) {
	noAway := Event{ID: "e4", Bookmakers: []BookmakerOdds{
		book("A", 2.0, 0, 0),
		{Site: "B", Home: NewPrice(1.9), Away: NewPrice(0)},
	}}
	_, err := BestOddsFor(noAway)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = BestOddsFor(Event{ID: "empty"})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEvent_QuotesAndName(t *testing.T) {
	ev := Event{
		ID: "e5", Sport: "EPL", HomeTeam: "Lions", AwayTeam: "Tigers",
		Bookmakers: []BookmakerOdds{book("A", 2.1, 0, 0), book("B", 0, 0, 2.05)},
	}
	assert.Equal(t, "[EPL] Lions vs Tigers", ev.Name())

	quotes := ev.Quotes(Home)
	require.Len(t, quotes, 2)
	v, ok := quotes[0].Price.Get()
	assert.True(t, ok)
	assert.Equal(t, 2.1, v)
	_, ok = quotes[1].Price.Get()
	assert.False(t, ok)
	assert.Equal(t, "B", quotes[1].Bookmaker)
}

func TestBestOddsFor_MatchesMaxOverQuotes(t *testing.T) {
	ev := Event{ID: "e6", Bookmakers: []BookmakerOdds{
		book("A", 1.9, 3.3, 0),
		book("B", 2.2, 0, 3.6),
		book("C", 0, 3.5, 3.4),
	}}
	best, err := BestOddsFor(ev)
	require.NoError(t, err)

	for i, o := range ev.Outcomes() {
		var maxV float64
		var site string
		for _, q := range ev.Quotes(o) {
			if v, ok := q.Price.Get(); ok && v > maxV {
				maxV, site = v, q.Bookmaker
			}
		}
		assert.Equal(t, maxV, best.Odds[i], o.String())
		assert.Equal(t, site, best.Bookmakers[i], o.String())
	}
	assert.Equal(t, []string{"B", "C", "B"}, best.Bookmakers)
}
