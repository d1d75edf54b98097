package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/chain"
	"github.com/birddograbbit/magic8-companion/internal/engine"
)

type stubProvider struct {
	snapshots map[string]*chain.Snapshot
}

func (p *stubProvider) GetOptionChain(ctx context.Context, symbol string) (*chain.Snapshot, error) {
	if snap, ok := p.snapshots[symbol]; ok {
		return snap, nil
	}
	return nil, chain.ErrDataUnavailable
}

func testServer(t *testing.T) http.Handler {
	t.Helper()
	provider := &stubProvider{
		snapshots: map[string]*chain.Snapshot{
			"SPX": {
				Symbol:    "SPX",
				SpotPrice: 5000,
				AsOf:      time.Now(),
				Contracts: []chain.ContractQuote{
					{Strike: 5050, Side: chain.Call, Gamma: 0.02, OpenInterest: 5000},
					{Strike: 4950, Side: chain.Put, Gamma: 0.015, OpenInterest: 4000},
				},
			},
		},
	}
	logger := zap.NewNop()
	eng := engine.New(provider, engine.Options{Multipliers: map[string]float64{"SPX": 10}}, logger)
	srv := NewServer(eng, nil, []string{"SPX", "SPY"}, logger)
	return NewRouter(srv, logger)
}

func TestGetHealth(t *testing.T) {
	router := testServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %s, want ok", resp.Status)
	}
	if len(resp.Symbols) != 2 {
		t.Errorf("symbols = %d, want 2", len(resp.Symbols))
	}
}

func TestGetGex(t *testing.T) {
	router := testServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gex/SPX", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp gexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Symbol != "SPX" || !resp.Available {
		t.Errorf("export = %+v", resp.Export)
	}
	if resp.Recommendation.Best == "" {
		t.Error("recommendation missing")
	}
}

func TestGetGexUnavailableStillServed(t *testing.T) {
	router := testServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gex/QQQ", nil))

	// No data is a typed result, not a transport failure
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp gexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Available {
		t.Error("QQQ has no data and must report unavailable")
	}
	for name, delta := range resp.ScoreAdjustments {
		if delta != 0 {
			t.Errorf("%s adjustment = %d, want 0", name, delta)
		}
	}
}

func TestPostAnalyzeWithBody(t *testing.T) {
	router := testServer(t)

	body := strings.NewReader(`{"symbols": ["SPX"]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]gexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("results = %d, want 1", len(resp))
	}
	if !resp["SPX"].Available {
		t.Error("SPX should be available")
	}
}

func TestPostAnalyzeDefaultsToConfiguredSymbols(t *testing.T) {
	router := testServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]gexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("results = %d, want the 2 configured symbols", len(resp))
	}
}
