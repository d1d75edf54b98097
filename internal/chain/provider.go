package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	primaryChainDomain  = "chain.magic8.io"
	fallbackChainDomain = "chain-backup.magic8.io"
)

// MarketDataProvider supplies 0-DTE option chain snapshots. Implementations
// own broker/vendor connectivity, contract qualification and missing-field
// normalization; callers only see a Snapshot or ErrDataUnavailable.
type MarketDataProvider interface {
	GetOptionChain(ctx context.Context, symbol string) (*Snapshot, error)
}

type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	retryCount int
	retryDelay time.Duration
	logger     *zap.Logger
}

// chainResponse is the vendor wire format for a chain snapshot.
type chainResponse struct {
	Symbol    string  `json:"symbol"`
	Spot      float64 `json:"spot"`
	Timestamp int64   `json:"timestamp"`
	Contracts []struct {
		Strike       float64  `json:"strike"`
		Side         string   `json:"side"`
		Gamma        *float64 `json:"gamma"`
		OpenInterest *int64   `json:"open_interest"`
	} `json:"contracts"`
}

func NewHTTPProvider(baseURL, apiKey string, ratePerSec int, timeout, retryDelay time.Duration, retryCount int, logger *zap.Logger) *HTTPProvider {
	transport := &http.Transport{
		MaxIdleConns:       100,
		MaxConnsPerHost:    10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}

	return &HTTPProvider{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec*2),
		retryCount: retryCount,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

func (p *HTTPProvider) GetOptionChain(ctx context.Context, symbol string) (*Snapshot, error) {
	// Wait for rate limiter; the vendor imposes its own subscription ceiling
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chain/%s/zero", p.baseURL, symbol)
	p.logger.Debug("requesting chain", zap.String("url", url))

	body, err := p.fetchWithRetry(ctx, url)
	if err != nil {
		// Try fallback domain before giving up
		if strings.Contains(url, primaryChainDomain) {
			fallbackURL := strings.Replace(url, primaryChainDomain, fallbackChainDomain, 1)
			p.logger.Info("retrying with fallback domain",
				zap.String("original", url),
				zap.String("fallback", fallbackURL),
				zap.Error(err))
			body, err = p.fetchWithRetry(ctx, fallbackURL)
		}
		if err != nil {
			return nil, err
		}
	}

	var resp chainResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding chain response: %w", err)
	}

	return normalizeSnapshot(symbol, &resp), nil
}

func (p *HTTPProvider) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= p.retryCount; attempt++ {
		if attempt > 0 {
			delay := p.retryDelay * time.Duration(1<<(attempt-1)) // Exponential backoff
			p.logger.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Basic "+p.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrDataUnavailable
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = ErrRateLimited
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// normalizeSnapshot converts the wire format into an immutable Snapshot.
// Missing or non-finite gamma and absent open interest normalize to zero;
// this is the data-acquisition boundary where that defaulting is allowed.
func normalizeSnapshot(symbol string, resp *chainResponse) *Snapshot {
	asOf := time.Unix(resp.Timestamp, 0).UTC()
	if resp.Timestamp == 0 {
		asOf = time.Now().UTC()
	}

	snap := &Snapshot{
		Symbol:    symbol,
		SpotPrice: resp.Spot,
		AsOf:      asOf,
		Contracts: make([]ContractQuote, 0, len(resp.Contracts)),
	}

	for _, c := range resp.Contracts {
		side := Side(strings.ToUpper(c.Side))
		if side != Call && side != Put {
			continue
		}

		gamma := 0.0
		if c.Gamma != nil && !math.IsNaN(*c.Gamma) && !math.IsInf(*c.Gamma, 0) {
			gamma = *c.Gamma
		}

		var oi int64
		if c.OpenInterest != nil && *c.OpenInterest > 0 {
			oi = *c.OpenInterest
		}

		snap.Contracts = append(snap.Contracts, ContractQuote{
			Strike:       c.Strike,
			Side:         side,
			Gamma:        gamma,
			OpenInterest: oi,
		})
	}

	return snap
}
