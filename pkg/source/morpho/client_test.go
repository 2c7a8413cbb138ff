package morpho

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultpnl/pkg/source"
)

const testVault = "0xd63070114470f685b75B74D60EEc7c1113d33a3D"

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

type recordedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newMockClient serves canned Morpho responses keyed by GraphQL operation name.
func newMockClient(t *testing.T, handlers map[string]func(req recordedRequest) any) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req recordedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for op, handler := range handlers {
			if strings.Contains(req.Query, "query "+op) {
				writeJSON(w, handler(req))
				return
			}
		}
		http.Error(w, "unexpected operation", http.StatusBadRequest)
	}))
	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(0))
	return server, client
}

func historyPayload() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"vaultByAddress": map[string]any{
				"address": testVault,
				"name":    "Test Vault",
				"historicalState": map[string]any{
					"sharePriceUsd": []map[string]any{
						{"x": 300, "y": 1.2},
						{"x": 100, "y": 1.0},
						{"x": 200, "y": nil},
					},
					"totalAssetsUsd": []map[string]any{
						{"x": 100, "y": 1000},
						{"x": 200, "y": 1100},
						{"x": 400, "y": 1300},
					},
				},
			},
		},
	}
}

func TestClientGetSeries(t *testing.T) {
	var seen recordedRequest
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"VaultHistory": func(req recordedRequest) any {
			seen = req
			return historyPayload()
		},
	})
	defer server.Close()

	start, end := int64(50), int64(500)
	series, err := client.GetSeries(context.Background(), testVault, 1, &start, &end)
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, int64(100), series[0].Timestamp)
	assert.InDelta(t, 1.0, *series[0].SharePriceUSD, 1e-12)
	assert.InDelta(t, 1000, *series[0].TotalAssetsUSD, 1e-12)
	assert.Nil(t, series[1].SharePriceUSD)
	assert.InDelta(t, 1100, *series[1].TotalAssetsUSD, 1e-12)
	assert.Nil(t, series[2].TotalAssetsUSD)
	assert.Nil(t, series[3].SharePriceUSD)

	options, ok := seen.Variables["options"].(map[string]any)
	require.True(t, ok, "options should be sent when bounds are set")
	assert.EqualValues(t, 50, options["startTimestamp"])
	assert.EqualValues(t, 500, options["endTimestamp"])
	assert.EqualValues(t, 1, seen.Variables["chainId"])
}

func TestClientGetSeriesWholeHistory(t *testing.T) {
	var seen recordedRequest
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"VaultHistory": func(req recordedRequest) any {
			seen = req
			return historyPayload()
		},
	})
	defer server.Close()

	_, err := client.GetSeries(context.Background(), testVault, 1, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, seen.Variables["options"])
}

func TestClientGetSeriesErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		wantErr error
	}{
		{
			name:    "vault not found",
			payload: map[string]any{"data": map[string]any{"vaultByAddress": nil}},
			wantErr: source.ErrVaultNotFound,
		},
		{
			name: "no history",
			payload: map[string]any{"data": map[string]any{"vaultByAddress": map[string]any{
				"address": testVault, "historicalState": nil,
			}}},
			wantErr: source.ErrNoHistory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := newMockClient(t, map[string]func(recordedRequest) any{
				"VaultHistory": func(recordedRequest) any { return tt.payload },
			})
			defer server.Close()
			_, err := client.GetSeries(context.Background(), testVault, 1, nil, nil)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClientGraphQLErrors(t *testing.T) {
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"VaultHistory": func(recordedRequest) any {
			return map[string]any{"errors": []map[string]any{{"message": "bad chain"}}}
		},
	})
	defer server.Close()

	_, err := client.GetSeries(context.Background(), testVault, 12345, nil, nil)
	require.Error(t, err)
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, []string{"bad chain"}, gqlErr.Messages)
	assert.Contains(t, err.Error(), "graphql errors")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		writeJSON(w, historyPayload())
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(1))
	series, err := client.GetSeries(context.Background(), testVault, 1, nil, nil)
	require.NoError(t, err)
	assert.Len(t, series, 4)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithMaxRetries(2))
	_, err := client.GetSeries(context.Background(), testVault, 1, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http status 500")
	assert.EqualValues(t, 3, calls.Load())
}

func TestClientGetVault(t *testing.T) {
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"VaultExtended": func(recordedRequest) any {
			return map[string]any{"data": map[string]any{"vaultByAddress": map[string]any{
				"address":     testVault,
				"name":        "Steakhouse USDC",
				"symbol":      "steakUSDC",
				"whitelisted": true,
				"metadata":    map[string]any{"description": "blue chip lending"},
				"asset":       map[string]any{"symbol": "USDC", "name": "USD Coin", "decimals": 6},
				"chain":       map[string]any{"id": 1},
				"state": map[string]any{
					"totalAssetsUsd": 1000.0,
					"sharePriceUsd":  1.05,
					"apy":            0.045,
					"curator":        "0xcurator",
					"allocation": []map[string]any{
						{
							"supplyAssetsUsd": 600.0,
							"enabled":         true,
							"market": map[string]any{
								"uniqueKey":       "0xmarket",
								"loanAsset":       map[string]any{"symbol": "USDC"},
								"collateralAsset": map[string]any{"symbol": "wstETH"},
								"state":           map[string]any{"utilization": 0.91},
							},
						},
						{
							"supplyAssetsUsd": 400.0,
							"enabled":         true,
							"market": map[string]any{
								"uniqueKey":       "0xidle",
								"loanAsset":       map[string]any{"symbol": "USDC"},
								"collateralAsset": nil,
							},
						},
					},
				},
			}}}
		},
	})
	defer server.Close()

	vault, err := client.GetVault(context.Background(), testVault, 1)
	require.NoError(t, err)
	require.NotNil(t, vault)
	assert.Equal(t, "Steakhouse USDC", vault.Name)
	assert.Equal(t, "USDC", vault.AssetSymbol)
	assert.Equal(t, 6, vault.AssetDecimals)
	assert.Equal(t, "blue chip lending", vault.Description)
	require.NotNil(t, vault.TotalAssetsUSD)
	assert.InDelta(t, 1000, *vault.TotalAssetsUSD, 1e-12)
	require.Len(t, vault.Allocations, 2)
	assert.Equal(t, "wstETH", vault.Allocations[0].CollateralAsset)
	require.NotNil(t, vault.Allocations[0].Utilization)
	assert.InDelta(t, 0.91, *vault.Allocations[0].Utilization, 1e-12)
	assert.Empty(t, vault.Allocations[1].CollateralAsset)
	assert.Nil(t, vault.Allocations[1].Utilization)
}

func TestClientGetVaultUnknown(t *testing.T) {
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"VaultExtended": func(recordedRequest) any {
			return map[string]any{"data": map[string]any{"vaultByAddress": nil}}
		},
	})
	defer server.Close()

	vault, err := client.GetVault(context.Background(), testVault, 1)
	require.NoError(t, err)
	assert.Nil(t, vault)
}

func curatorJSON(id string) map[string]any {
	return map[string]any{
		"id": id, "name": "9Summits", "verified": true,
		"addresses": []map[string]any{{"chainId": 1, "address": "0x1111111111111111111111111111111111111111"}},
	}
}

func TestClientResolveCurator(t *testing.T) {
	var byID, byAddress int
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"CuratorById": func(req recordedRequest) any {
			byID++
			if req.Variables["curatorId"] == "9summits" {
				return map[string]any{"data": map[string]any{"curator": curatorJSON("9summits")}}
			}
			return map[string]any{"errors": []map[string]any{{"message": "No results matching given parameters"}}}
		},
		"CuratorByAddress": func(req recordedRequest) any {
			byAddress++
			return map[string]any{"data": map[string]any{"curators": map[string]any{
				"items": []map[string]any{curatorJSON("by-address")},
			}}}
		},
	})
	defer server.Close()
	ctx := context.Background()

	cur, err := client.ResolveCurator(ctx, " 9summits ")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "9summits", cur.ID)
	require.Len(t, cur.Addresses, 1)
	assert.Equal(t, 1, cur.Addresses[0].ChainID)
	assert.Equal(t, 1, byID)
	assert.Equal(t, 0, byAddress)

	cur, err = client.ResolveCurator(ctx, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "by-address", cur.ID)
	assert.Equal(t, 1, byID, "addresses skip the slug lookup")

	cur, err = client.ResolveCurator(ctx, "unknown-slug")
	require.NoError(t, err)
	assert.Equal(t, "by-address", cur.ID, "slug miss falls back to address lookup")

	cur, err = client.ResolveCurator(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestClientGetCuratorVaults(t *testing.T) {
	var seen recordedRequest
	server, client := newMockClient(t, map[string]func(recordedRequest) any{
		"CuratorVaults": func(req recordedRequest) any {
			seen = req
			return map[string]any{"data": map[string]any{"vaults": map[string]any{"items": []map[string]any{
				{"id": "v1", "name": "A", "address": testVault, "chain": map[string]any{"id": 8453},
					"asset": map[string]any{"symbol": "USDC"}, "state": map[string]any{"totalAssetsUsd": 5e6}},
				{"id": "v2", "name": "B", "address": "0x2", "chain": nil, "state": nil},
			}}}}
		},
	})
	defer server.Close()

	vaults, err := client.GetCuratorVaults(context.Background(), "9summits", 0)
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	assert.Equal(t, 8453, vaults[0].ChainID)
	assert.Equal(t, "USDC", vaults[0].AssetSymbol)
	assert.InDelta(t, 5e6, *vaults[0].TotalAssetsUSD, 1e-6)
	assert.Nil(t, vaults[1].TotalAssetsUSD)
	assert.EqualValues(t, defaultCuratorVaultLimit, seen.Variables["first"])

	none, err := client.GetCuratorVaults(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProviderRegistered(t *testing.T) {
	cfg, err := source.LoadConfigFromReader(strings.NewReader(`
default: morpho
providers:
  morpho:
    type: morpho
    site_url: https://app.morpho.test
    timeout: 5s
    http_timeout: 4s
    max_retries: 1
    interval: day
`))
	require.NoError(t, err)
	provider, providers, err := cfg.Build()
	require.NoError(t, err)
	require.Len(t, providers, 1)

	mp, ok := provider.(*Provider)
	require.True(t, ok)
	assert.Equal(t, "https://app.morpho.test/", mp.SiteURL())
	assert.Equal(t, "morpho", mp.Name())
	assert.Equal(t, "DAY", mp.client.interval)
	assert.Equal(t, 1, mp.client.maxRetries)
}
