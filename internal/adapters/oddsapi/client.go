package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBase    = "https://api.the-odds-api.com"
	defaultRegions = "us,eu,uk,au"
	defaultMarkets = "h2h"

	// El plan gratuito corta con 429 si se encadenan peticiones; una cada pausa
	// con ráfaga corta mantiene el ritmo del loop original (5s entre deportes).
	defaultSportPause = 5 * time.Second
	defaultBurst      = 2

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Config configura el cliente de The Odds API.
type Config struct {
	BaseURL       string
	APIKey        string
	Regions       string
	Markets       string
	DefaultSports []string
	SportPause    time.Duration // separación mínima entre peticiones; <0 desactiva el límite
	Concurrency   int           // peticiones por deporte en vuelo (0 = 4)
	RetryWait     time.Duration // espera base del backoff (0 = 500ms)
}

// Client es el HTTP client de The Odds API con rate limiting y retries.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewClient crea un Client. Los campos vacíos toman los valores de producción.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBase
	}
	if cfg.Regions == "" {
		cfg.Regions = defaultRegions
	}
	if cfg.Markets == "" {
		cfg.Markets = defaultMarkets
	}
	if cfg.SportPause == 0 {
		cfg.SportPause = defaultSportPause
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = baseRetryWait
	}

	limit := rate.Inf
	if cfg.SportPause > 0 {
		limit = rate.Every(cfg.SportPause)
	}

	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, defaultBurst),
	}
}

// endpoint construye la URL con la API key y los parámetros dados.
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.cfg.APIKey)
	return c.cfg.BaseURL + path + "?" + params.Encode()
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta la función con backoff exponencial.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by odds API", "attempt", attempt+1)
			if attempt < maxRetries {
				c.sleep(ctx, attempt)
			}
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return &StatusError{Code: resp.StatusCode, Body: string(body)}
		}

		if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
			slog.Debug("odds API quota", "remaining", remaining, "used", resp.Header.Get("x-requests-used"))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.cfg.RetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

// StatusError es una respuesta 4xx de la API (key inválida, cuota agotada, deporte desconocido).
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client error %d: %s", e.Code, e.Body)
}
