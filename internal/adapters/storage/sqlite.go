package storage

// sqlite.go — histórico de eventos escaneados.
//
// Estrategia:
//   - `cycles`: resumen ligero por ciclo (eventos, arbitrajes, mejor profit).
//   - `events`: UNA fila por evento (UPSERT por id) con las cuotas crudas de
//     todas las casas en JSON, para poder re-analizarlo en la vista de detalle.
//   - Prune automático al arrancar: cycles > 30d, eventos no vistos en 14d.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/surebet/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id     TEXT     NOT NULL,
    scanned_at  DATETIME NOT NULL,
    total       INTEGER  NOT NULL DEFAULT 0,
    arbitrages  INTEGER  NOT NULL DEFAULT 0,
    best_profit REAL     NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS events (
    event_id      TEXT PRIMARY KEY,
    scan_id       TEXT     NOT NULL,
    sport         TEXT,
    home_team     TEXT,
    away_team     TEXT,
    commence_time DATETIME,
    bookmakers    TEXT     NOT NULL,
    best          TEXT     NOT NULL,
    result        TEXT     NOT NULL,
    is_arb        INTEGER  NOT NULL DEFAULT 0,
    margin        REAL     NOT NULL DEFAULT 0,
    profit        REAL     NOT NULL DEFAULT 0,
    first_seen    DATETIME NOT NULL,
    scanned_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_at  ON cycles(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_events_at  ON events(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_events_arb ON events(is_arb, profit DESC);
`

const (
	retentionCycles = 30 * 24 * time.Hour
	retentionEvents = 14 * 24 * time.Hour
)

// ErrNotFound se devuelve cuando el evento pedido no está en el histórico.
var ErrNotFound = errors.New("event not found")

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, now: time.Now}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveScan persiste el resumen del ciclo y hace upsert de cada evento analizado.
func (s *SQLiteStorage) SaveScan(ctx context.Context, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	now := s.now().UTC()
	arbs, bestProfit := cycleSummary(opportunities)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cycles (scan_id, scanned_at, total, arbitrages, best_profit) VALUES (?, ?, ?, ?, ?)`,
		opportunities[0].ScanID, now, len(opportunities), arbs, bestProfit,
	); err != nil {
		return fmt.Errorf("storage.SaveScan: insert cycle: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
			(event_id, scan_id, sport, home_team, away_team, commence_time,
			 bookmakers, best, result, is_arb, margin, profit, first_seen, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO UPDATE SET
			scan_id       = excluded.scan_id,
			sport         = excluded.sport,
			home_team     = excluded.home_team,
			away_team     = excluded.away_team,
			commence_time = excluded.commence_time,
			bookmakers    = excluded.bookmakers,
			best          = excluded.best,
			result        = excluded.result,
			is_arb        = excluded.is_arb,
			margin        = excluded.margin,
			profit        = excluded.profit,
			scanned_at    = excluded.scanned_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: prepare: %w", err)
	}
	defer stmt.Close()

	for _, opp := range opportunities {
		books, best, result, err := encodeOpportunity(opp)
		if err != nil {
			return fmt.Errorf("storage.SaveScan: encode %s: %w", opp.Event.ID, err)
		}

		isArb := 0
		if opp.IsArbitrage() {
			isArb = 1
		}
		var commence *time.Time
		if !opp.Event.CommenceTime.IsZero() {
			t := opp.Event.CommenceTime.UTC()
			commence = &t
		}
		scannedAt := opp.ScannedAt.UTC()
		if opp.ScannedAt.IsZero() {
			scannedAt = now
		}

		if _, err := stmt.ExecContext(ctx,
			opp.Event.ID,
			opp.ScanID,
			opp.Event.Sport,
			opp.Event.HomeTeam,
			opp.Event.AwayTeam,
			commence,
			books,
			best,
			result,
			isArb,
			opp.Result.Margin,
			opp.Result.Profit,
			now, // first_seen: ignorado en ON CONFLICT
			scannedAt,
		); err != nil {
			return fmt.Errorf("storage.SaveScan: upsert %s: %w", opp.Event.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return nil
}

const selectEvent = `
	SELECT event_id, scan_id, sport, home_team, away_team, commence_time,
	       bookmakers, best, result, scanned_at
	FROM events`

// GetHistory devuelve los eventos cuyo último escaneo está en el rango dado.
// Ordenados por profit desc; los arbitrajes primero.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, selectEvent+`
		WHERE scanned_at BETWEEN ? AND ?
		ORDER BY is_arb DESC, profit DESC, event_id
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()
	return scanOpportunities(rows, "storage.GetHistory")
}

// GetArbitrages devuelve todos los arbitrajes guardados, los más rentables primero.
// Se usa al arrancar para recargar el histórico.
func (s *SQLiteStorage) GetArbitrages(ctx context.Context) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, selectEvent+`
		WHERE is_arb = 1
		ORDER BY profit DESC, event_id
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetArbitrages: query: %w", err)
	}
	defer rows.Close()
	return scanOpportunities(rows, "storage.GetArbitrages")
}

// GetEvent devuelve el último análisis guardado de un evento.
func (s *SQLiteStorage) GetEvent(ctx context.Context, eventID string) (domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, selectEvent+` WHERE event_id = ?`, eventID)
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("storage.GetEvent: query: %w", err)
	}
	defer rows.Close()

	opps, err := scanOpportunities(rows, "storage.GetEvent")
	if err != nil {
		return domain.Opportunity{}, err
	}
	if len(opps) == 0 {
		return domain.Opportunity{}, fmt.Errorf("storage.GetEvent: %s: %w", eventID, ErrNotFound)
	}
	return opps[0], nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func scanOpportunities(rows *sql.Rows, op string) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for rows.Next() {
		var (
			opp                 domain.Opportunity
			sport, home, away   sql.NullString
			commence            sql.NullTime
			books, best, result string
			scannedAt           time.Time
		)
		if err := rows.Scan(
			&opp.Event.ID,
			&opp.ScanID,
			&sport,
			&home,
			&away,
			&commence,
			&books,
			&best,
			&result,
			&scannedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		opp.Event.Sport = sport.String
		opp.Event.HomeTeam = home.String
		opp.Event.AwayTeam = away.String
		if commence.Valid {
			opp.Event.CommenceTime = commence.Time.UTC()
		}
		opp.ScannedAt = scannedAt.UTC()

		if err := decodeOpportunity(&opp, books, best, result); err != nil {
			return nil, fmt.Errorf("%s: decode %s: %w", op, opp.Event.ID, err)
		}
		opps = append(opps, opp)
	}
	return opps, rows.Err()
}

func encodeOpportunity(opp domain.Opportunity) (books, best, result string, err error) {
	b, err := json.Marshal(opp.Event.Bookmakers)
	if err != nil {
		return "", "", "", err
	}
	bo, err := json.Marshal(opp.Best)
	if err != nil {
		return "", "", "", err
	}
	r, err := json.Marshal(opp.Result)
	if err != nil {
		return "", "", "", err
	}
	return string(b), string(bo), string(r), nil
}

func decodeOpportunity(opp *domain.Opportunity, books, best, result string) error {
	if err := json.Unmarshal([]byte(books), &opp.Event.Bookmakers); err != nil {
		return fmt.Errorf("bookmakers: %w", err)
	}
	if err := json.Unmarshal([]byte(best), &opp.Best); err != nil {
		return fmt.Errorf("best odds: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &opp.Result); err != nil {
		return fmt.Errorf("result: %w", err)
	}
	return nil
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	now := s.now().UTC()
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE scanned_at < ?`, now.Add(-retentionCycles))
	s.db.ExecContext(ctx, `DELETE FROM events WHERE scanned_at < ?`, now.Add(-retentionEvents))
}

// cycleSummary cuenta arbitrajes y el mejor profit del ciclo.
func cycleSummary(opps []domain.Opportunity) (arbs int, bestProfit float64) {
	for _, o := range opps {
		if !o.IsArbitrage() {
			continue
		}
		arbs++
		if o.Result.Profit > bestProfit {
			bestProfit = o.Result.Profit
		}
	}
	return
}
