package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner  ScannerConfig  `yaml:"scanner"`
	API      APIConfig      `yaml:"api"`
	Mock     MockConfig     `yaml:"mock"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
// Solo Bankroll y ReferenceBankroll llegan al motor de arbitraje.
type ScannerConfig struct {
	IntervalSeconds   int     `yaml:"interval_seconds"`
	SportPauseSeconds float64 `yaml:"sport_pause_seconds"` // separación entre peticiones por deporte
	Bankroll          float64 `yaml:"bankroll"`
	ReferenceBankroll float64 `yaml:"reference_bankroll"` // capital del barrido de combinaciones
	MinBookmakers     int     `yaml:"min_bookmakers"`
	AnalysisWorkers   int     `yaml:"analysis_workers"`
	OnlyArbitrage     bool    `yaml:"only_arbitrage"`
	MinProfit         float64 `yaml:"min_profit"`
	MinMargin         float64 `yaml:"min_margin"`
	Detail            bool    `yaml:"detail"`
}

// APIConfig configura The Odds API.
type APIConfig struct {
	BaseURL       string   `yaml:"base_url"`
	APIKey        string   `yaml:"api_key"`
	Regions       string   `yaml:"regions"`
	Markets       string   `yaml:"markets"`
	Concurrency   int      `yaml:"concurrency"`
	DefaultSports []string `yaml:"default_sports"` // si /v4/sports falla o viene vacío
}

// MockConfig configura el feed sintético.
type MockConfig struct {
	Teams      []string `yaml:"teams"`
	Bookmakers []string `yaml:"bookmakers"` // exactamente dos
	MinPrice   float64  `yaml:"min_price"`
	MaxPrice   float64  `yaml:"max_price"`
	PerCycle   int      `yaml:"per_cycle"`
	Seed       int64    `yaml:"seed"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// CacheConfig configura el seen-set en Redis. Addr vacío = en memoria.
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

// TelegramConfig configura las alertas por Telegram. Token vacío = desactivado.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// DefaultSports es la lista usada cuando la API no devuelve deportes activos.
var DefaultSports = []string{
	"soccer_epl",
	"soccer_germany_bundesliga",
	"soccer_spain_la_liga",
	"soccer_italy_serie_a",
	"soccer_france_ligue_one",
	"americanfootball_nfl",
	"basketball_nba",
	"baseball_mlb",
	"icehockey_nhl",
}

// Load carga la configuración desde el archivo YAML y los archivos .env si existen.
// Las variables de entorno sobreescriben los valores del YAML.
// Un path vacío arranca solo con entorno y defaults.
func Load(path string) (*Config, error) {
	// Cargar .env / .local.env si existen (silencia error si no hay archivo)
	_ = godotenv.Load()
	_ = godotenv.Load(".local.env")

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// SportPause devuelve la pausa entre peticiones por deporte.
func (c *Config) SportPause() time.Duration {
	return time.Duration(c.Scanner.SportPauseSeconds * float64(time.Second))
}

// CacheTTL devuelve cuánto se recuerda un evento procesado.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// HasAPIKey indica si hay key para el feed real; sin ella se usa el mock.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.API.APIKey) != ""
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID %q: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("SUREBET_BANKROLL"); v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SUREBET_BANKROLL %q: %w", v, err)
		}
		cfg.Scanner.Bankroll = b
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 120
	}
	if cfg.Scanner.SportPauseSeconds == 0 {
		cfg.Scanner.SportPauseSeconds = 5
	}
	if cfg.Scanner.Bankroll <= 0 {
		cfg.Scanner.Bankroll = 100
	}
	if cfg.Scanner.ReferenceBankroll <= 0 {
		cfg.Scanner.ReferenceBankroll = 100
	}
	if cfg.Scanner.MinBookmakers <= 0 {
		cfg.Scanner.MinBookmakers = 2
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.the-odds-api.com"
	}
	if cfg.API.Regions == "" {
		cfg.API.Regions = "us,eu,uk,au"
	}
	if cfg.API.Markets == "" {
		cfg.API.Markets = "h2h"
	}
	if len(cfg.API.DefaultSports) == 0 {
		cfg.API.DefaultSports = DefaultSports
	}
	if cfg.Mock.MinPrice <= 0 {
		cfg.Mock.MinPrice = 1.7
	}
	if cfg.Mock.MaxPrice <= 0 {
		cfg.Mock.MaxPrice = 2.5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "surebet.db"
	}
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = 24
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate rechaza combinaciones que el scanner no puede usar.
func (c *Config) validate() error {
	if c.Mock.MaxPrice < c.Mock.MinPrice {
		return fmt.Errorf("mock.max_price %.2f < mock.min_price %.2f", c.Mock.MaxPrice, c.Mock.MinPrice)
	}
	if n := len(c.Mock.Bookmakers); n != 0 && n != 2 {
		return fmt.Errorf("mock.bookmakers: want 2 sites, got %d", n)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when a token is set")
	}
	return nil
}
