package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultpnl/internal/config"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/embed"
	"vaultpnl/pkg/source"
)

const (
	testVault = "0xd63070114470f685b75B74D60EEc7c1113d33a3D"
	day       = int64(86400)
	// 2025-11-13 00:00:00 UTC
	testNow = int64(1762992000)
)

type fakeSource struct {
	series      []analytics.Point
	vault       *source.Vault
	vaultErr    error
	seriesCalls atomic.Int32

	mu        sync.Mutex
	lastStart *int64
	lastEnd   *int64
}

func (f *fakeSource) Series(_ context.Context, _ string, _ int, start, end *int64) ([]analytics.Point, error) {
	f.seriesCalls.Add(1)
	f.mu.Lock()
	f.lastStart, f.lastEnd = start, end
	f.mu.Unlock()
	if f.series == nil {
		return nil, source.ErrNoHistory
	}
	return f.series, nil
}

func (f *fakeSource) Vault(context.Context, string, int) (*source.Vault, error) {
	return f.vault, f.vaultErr
}

func (f *fakeSource) Curator(_ context.Context, query string) (*source.Curator, error) {
	if query != "9summits" {
		return nil, nil
	}
	return &source.Curator{ID: "9summits", Name: "9Summits", Verified: true,
		Addresses: []source.CuratorAddress{{ChainID: 1, Address: "0x1111111111111111111111111111111111111111"}}}, nil
}

func (f *fakeSource) CuratorVaults(context.Context, string, int) ([]source.VaultListing, error) {
	return []source.VaultListing{
		{ID: "small", Name: "Small", Address: "0x2222222222222222222222222222222222222222", ChainID: 8453, TotalAssetsUSD: analytics.Ptr(1e5)},
		{ID: "big", Name: "Big", Address: testVault, ChainID: 1, TotalAssetsUSD: analytics.Ptr(5e6)},
		{ID: "unknown", Name: "Unknown", Address: "0x3333333333333333333333333333333333333333", ChainID: 424242},
	}, nil
}

func sampleSeries() []analytics.Point {
	start := testNow - 10*day
	return []analytics.Point{
		{Timestamp: start, SharePriceUSD: analytics.Ptr(1.0), TotalAssetsUSD: analytics.Ptr(1000)},
		{Timestamp: start + 5*day, SharePriceUSD: analytics.Ptr(1.05), TotalAssetsUSD: analytics.Ptr(1100)},
		{Timestamp: start + 9*day, SharePriceUSD: analytics.Ptr(1.1), TotalAssetsUSD: analytics.Ptr(1210)},
	}
}

func newTestContext(t *testing.T, src *fakeSource) *svc.ServiceContext {
	t.Helper()
	cfg := config.Config{}
	require.NoError(t, cfg.Validate())
	svcCtx, err := svc.NewWithProvider(cfg, src)
	require.NoError(t, err)
	svcCtx.Now = func() time.Time { return time.Unix(testNow, 0) }
	return svcCtx
}

func serve(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNetworksHandler(t *testing.T) {
	rec := serve(NetworksHandler(newTestContext(t, &fakeSource{})), "/api/networks")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.NetworksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Networks)
	assert.Equal(t, 1, resp.Networks[0].ID)
	assert.Equal(t, "ethereum", resp.Networks[0].Slug)
}

func pnlQuery(extra url.Values) string {
	q := url.Values{
		"vault_address": {testVault},
		"network_id":    {"1"},
		"start_date":    {"2025-11-03"},
		"end_date":      {"2025-11-13"},
	}
	for k, v := range extra {
		q[k] = v
	}
	return "/api/vault/pnl?" + q.Encode()
}

func TestVaultPnlHandler(t *testing.T) {
	src := &fakeSource{
		series: sampleSeries(),
		vault: &source.Vault{
			Name:           "Steakhouse USDC",
			Address:        testVault,
			AssetSymbol:    "USDC",
			TotalAssetsUSD: analytics.Ptr(1000),
			SharePriceUSD:  analytics.Ptr(1.1),
			Allocations: []analytics.Allocation{
				{MarketKey: "idle", LoanAsset: "USDC", SupplyUSD: analytics.Ptr(50)},
				{MarketKey: "m1", LoanAsset: "USDe", CollateralAsset: "PT", SupplyUSD: analytics.Ptr(950), Utilization: analytics.Ptr(0.97)},
			},
		},
	}
	rec := serve(VaultPnlHandler(newTestContext(t, src)), pnlQuery(nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.VaultPnlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ethereum", resp.Network)
	assert.InDelta(t, 0.10, resp.Summary.PnLDecimal, 1e-9)
	assert.Equal(t, "+10.00 %", resp.Summary.PnLLabel)
	assert.Equal(t, sampleSeries()[0].Timestamp, resp.Summary.Start.Timestamp)
	assert.Equal(t, "2025-11-03 00:00 UTC", resp.Summary.Start.Label)
	require.Len(t, resp.ChartPoints, 3)
	assert.Equal(t, sampleSeries()[0].Timestamp*1000, resp.ChartPoints[0].Timestamp)

	require.NotNil(t, resp.Performance)
	assert.InDelta(t, 210, resp.Performance.TVLChangeUSD, 1e-9)
	require.NotNil(t, resp.TVLWindow)
	assert.InDelta(t, 210, resp.TVLWindow.ChangeUSD, 1e-9)

	require.NotNil(t, resp.Vault)
	assert.Equal(t, "Steakhouse USDC", resp.Vault.Name)
	assert.Equal(t, "1.00 K $", resp.Vault.TVL)
	require.NotNil(t, resp.Vault.CashRatio)
	assert.InDelta(t, 0.05, *resp.Vault.CashRatio, 1e-9)
	require.Len(t, resp.Composition, 2)
	assert.Equal(t, "m1", resp.Composition[0].Title)
	assert.Equal(t, "95.00 %", resp.Composition[0].PercentLabel)

	require.NotEmpty(t, resp.Warnings)
	assert.Contains(t, resp.Warnings[0], "Low liquidity")
	assert.Equal(t, "https://app.morpho.org/ethereum/vault/"+testVault, resp.MorphoURL)
	assert.Contains(t, resp.EmbedURL, "/proxy/morpho?")

	require.NotNil(t, src.lastStart)
	assert.Equal(t, testNow-10*day, *src.lastStart)
}

func TestVaultPnlHandlerFullHistory(t *testing.T) {
	src := &fakeSource{series: sampleSeries()}
	rec := serve(VaultPnlHandler(newTestContext(t, src)), pnlQuery(url.Values{
		"full_history": {"true"},
		"start_date":   {"2025-11-13"},
		"end_date":     {"2025-11-13"},
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, src.lastStart, "full history requests are unbounded")
	assert.Nil(t, src.lastEnd)

	var resp types.VaultPnlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Summary.IsFullHistory)
	assert.Nil(t, resp.Vault)
	assert.Empty(t, resp.VaultError)
}

func TestVaultPnlHandlerVaultErrorIsNotFatal(t *testing.T) {
	src := &fakeSource{series: sampleSeries(), vaultErr: errors.New("details timeout")}
	rec := serve(VaultPnlHandler(newTestContext(t, src)), pnlQuery(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.VaultPnlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "details timeout", resp.VaultError)
	assert.Empty(t, resp.Composition)
}

func TestVaultPnlHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    *fakeSource
		target string
		want   string
	}{
		{"missing params", &fakeSource{}, "/api/vault/pnl", ""},
		{"bad address", &fakeSource{}, pnlQuery(url.Values{"vault_address": {"0x123"}}), "0x-prefixed"},
		{"unknown network", &fakeSource{}, pnlQuery(url.Values{"network_id": {"5"}}), "unknown network"},
		{"bad date", &fakeSource{}, pnlQuery(url.Values{"start_date": {"13/11/2025"}}), "date"},
		{"inverted range", &fakeSource{}, pnlQuery(url.Values{"start_date": {"2025-11-13"}}), "strictly after"},
		{"no history", &fakeSource{}, pnlQuery(nil), "no historical"},
		{"no prices", &fakeSource{series: []analytics.Point{{Timestamp: 1, TotalAssetsUSD: analytics.Ptr(1)}}}, pnlQuery(nil), "no share price"},
		{"zero start price", &fakeSource{series: []analytics.Point{
			{Timestamp: testNow - 5*day, SharePriceUSD: analytics.Ptr(0)},
			{Timestamp: testNow - day, SharePriceUSD: analytics.Ptr(1)},
		}}, pnlQuery(nil), "start price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(VaultPnlHandler(newTestContext(t, tt.src)), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestVaultChartHandler(t *testing.T) {
	src := &fakeSource{series: sampleSeries()}
	svcCtx := newTestContext(t, src)
	target := "/api/vault/chart?" + pnlQuery(nil)[len("/api/vault/pnl?"):]

	rec := serve(VaultChartHandler(svcCtx), target)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))

	serve(VaultChartHandler(svcCtx), target)
	assert.EqualValues(t, 1, src.seriesCalls.Load(), "chart is memoized")
}

func TestCuratorHandler(t *testing.T) {
	src := &fakeSource{series: sampleSeries()}
	svcCtx := newTestContext(t, src)

	rec := serve(CuratorHandler(svcCtx), "/api/curator?curator=9summits")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp types.CuratorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "9Summits", resp.Curator.Name)
	require.Len(t, resp.Vaults, 3)
	assert.Equal(t, "big", resp.Vaults[0].ID, "sorted by TVL descending")
	assert.Equal(t, "unknown", resp.Vaults[2].ID)
	assert.Equal(t, "424242", resp.Vaults[2].Network)
	assert.Equal(t, "5.00 M $", resp.Vaults[0].DisplayTVL)
	assert.Equal(t, "+10.00 %", resp.Vaults[0].PnL30d)
	assert.Equal(t, "+210.00 $", resp.Vaults[0].TVLChange30d)
	assert.Equal(t, "+21.00 %", resp.Vaults[0].TVLPct30d)

	rec = serve(CuratorHandler(svcCtx), "/api/curator?curator=9summits")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Vaults[0].MetricsCached)
	assert.EqualValues(t, 3, src.seriesCalls.Load(), "second listing served from cache")
}

func TestCuratorHandlerDegradesMetrics(t *testing.T) {
	rec := serve(CuratorHandler(newTestContext(t, &fakeSource{})), "/api/curator?curator=9summits")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.CuratorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, v := range resp.Vaults {
		assert.Equal(t, "N/A", v.PnL30d)
		assert.Equal(t, "N/A", v.TVLChange30d)
		assert.Equal(t, "N/A", v.TVLPct30d)
	}
}

func TestCuratorHandlerNotFound(t *testing.T) {
	rec := serve(CuratorHandler(newTestContext(t, &fakeSource{})), "/api/curator?curator=nobody")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no curator matches")
}

func TestProxyMorphoHandler(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/base/vault/"+testVault {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head><script>x()</script></head><body><a href="/docs">d</a></body></html>`))
			return
		}
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svcCtx := newTestContext(t, &fakeSource{})
	svcCtx.Embed = embed.NewFetcher(upstream.URL, upstream.Client())

	rec := serve(ProxyMorphoHandler(svcCtx), "/proxy/morpho?network=base&address="+testVault)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `href="`+upstream.URL+`/docs"`)
	assert.NotContains(t, rec.Body.String(), "<script")

	serve(ProxyMorphoHandler(svcCtx), "/proxy/morpho?network=base&address="+testVault)
	assert.EqualValues(t, 1, hits.Load(), "prepared page is memoized")

	rec = serve(ProxyMorphoHandler(svcCtx), "/proxy/morpho?network=ethereum&address="+testVault)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = serve(ProxyMorphoHandler(svcCtx), "/proxy/morpho?network=base")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(ProxyMorphoHandler(svcCtx), "/proxy/morpho?network=atlantis&address="+testVault)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
