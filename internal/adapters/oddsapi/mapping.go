package oddsapi

import (
	"github.com/alejandrodnm/surebet/internal/domain"
)

const drawName = "Draw"

// mapEvents convierte los DTOs a domain.Event.
func mapEvents(raw []oddsEvent) []domain.Event {
	events := make([]domain.Event, 0, len(raw))
	for _, r := range raw {
		events = append(events, mapEvent(r))
	}
	return events
}

// mapEvent convierte un oddsEvent. Las casas sin mercados se descartan.
func mapEvent(r oddsEvent) domain.Event {
	ev := domain.Event{
		ID:           r.ID,
		Sport:        r.SportTitle,
		HomeTeam:     r.HomeTeam,
		AwayTeam:     r.AwayTeam,
		CommenceTime: r.CommenceTime.UTC(),
		Bookmakers:   make([]domain.BookmakerOdds, 0, len(r.Bookmakers)),
	}
	for _, b := range r.Bookmakers {
		if len(b.Markets) == 0 {
			continue
		}
		odds, ok := mapMarket(b.Markets[0], r.HomeTeam, r.AwayTeam)
		if !ok {
			continue
		}
		odds.Site = b.Title
		if odds.Site == "" {
			odds.Site = b.Key
		}
		ev.Bookmakers = append(ev.Bookmakers, odds)
	}
	return ev
}

// mapMarket asigna los outcomes por nombre y, si no cuadran, por posición
// (3 → home, draw, away; 2 → home, away).
func mapMarket(m oddsMarket, home, away string) (domain.BookmakerOdds, bool) {
	odds := domain.BookmakerOdds{
		Home: domain.NoPrice(),
		Draw: domain.NoPrice(),
		Away: domain.NoPrice(),
	}

	matched := 0
	for _, o := range m.Outcomes {
		switch o.Name {
		case home:
			odds.Home = domain.NewPrice(o.Price)
			matched++
		case away:
			odds.Away = domain.NewPrice(o.Price)
			matched++
		case drawName:
			odds.Draw = domain.NewPrice(o.Price)
			matched++
		}
	}
	if matched == len(m.Outcomes) && matched > 0 {
		return odds, true
	}

	switch len(m.Outcomes) {
	case 3:
		odds.Home = domain.NewPrice(m.Outcomes[0].Price)
		odds.Draw = domain.NewPrice(m.Outcomes[1].Price)
		odds.Away = domain.NewPrice(m.Outcomes[2].Price)
	case 2:
		odds.Home = domain.NewPrice(m.Outcomes[0].Price)
		odds.Draw = domain.NoPrice()
		odds.Away = domain.NewPrice(m.Outcomes[1].Price)
	default:
		return domain.BookmakerOdds{}, false
	}
	return odds, true
}
