// Package mock genera eventos 2-way sintéticos para probar el pipeline sin API key.
package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
	"github.com/google/uuid"
)

var (
	defaultTeams      = []string{"Lions", "Tigers", "Eagles", "Sharks", "Wolves", "Bears"}
	defaultBookmakers = [2]string{"Betfair", "Pinnacle"}
)

const (
	defaultMinPrice = 1.7
	defaultMaxPrice = 2.5
	defaultPerCycle = 5
	mockSport       = "Mock"
)

// Config configura el generador.
type Config struct {
	Teams      []string
	Bookmakers [2]string // la primera cotiza solo local, la segunda solo visitante
	MinPrice   float64
	MaxPrice   float64
	PerCycle   int   // eventos por llamada a FetchEvents
	Seed       int64 // 0 = semilla aleatoria
}

// Generator implementa ports.EventProvider con eventos aleatorios.
type Generator struct {
	cfg Config
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator crea un Generator. Los campos vacíos toman valores por defecto.
func NewGenerator(cfg Config) *Generator {
	if len(cfg.Teams) < 2 {
		cfg.Teams = defaultTeams
	}
	if cfg.Bookmakers[0] == "" || cfg.Bookmakers[1] == "" {
		cfg.Bookmakers = defaultBookmakers
	}
	if cfg.MinPrice <= 1 {
		cfg.MinPrice = defaultMinPrice
	}
	if cfg.MaxPrice < cfg.MinPrice {
		cfg.MaxPrice = math.Max(defaultMaxPrice, cfg.MinPrice)
	}
	if cfg.PerCycle <= 0 {
		cfg.PerCycle = defaultPerCycle
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// FetchEvents implementa ports.EventProvider.
func (g *Generator) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, 0, g.cfg.PerCycle)
	for i := 0; i < g.cfg.PerCycle; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := g.Next()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Next genera un evento: la casa A solo cotiza local y la casa B solo visitante.
func (g *Generator) Next() (domain.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	teams := g.cfg.Teams
	a := g.rng.Intn(len(teams))
	b := g.rng.Intn(len(teams) - 1)
	if b >= a {
		b++
	}

	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return domain.Event{}, fmt.Errorf("mock.Next: event id: %w", err)
	}

	return domain.Event{
		ID:           fmt.Sprintf("%svs%s_%s", teams[a], teams[b], id),
		Sport:        mockSport,
		HomeTeam:     teams[a],
		AwayTeam:     teams[b],
		CommenceTime: g.now().UTC(),
		Bookmakers: []domain.BookmakerOdds{
			{
				Site: g.cfg.Bookmakers[0],
				Home: domain.NewPrice(g.price()),
				Draw: domain.NoPrice(),
				Away: domain.NoPrice(),
			},
			{
				Site: g.cfg.Bookmakers[1],
				Home: domain.NoPrice(),
				Draw: domain.NoPrice(),
				Away: domain.NewPrice(g.price()),
			},
		},
	}, nil
}

// price devuelve un precio uniforme en [min, max] redondeado a 2 decimales.
func (g *Generator) price() float64 {
	v := g.cfg.MinPrice + g.rng.Float64()*(g.cfg.MaxPrice-g.cfg.MinPrice)
	return math.Round(v*100) / 100
}
