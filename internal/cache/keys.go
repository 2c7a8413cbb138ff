package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vaultpnl/internal/config"
	"vaultpnl/pkg/metricscache"
)

// Namespace is the Redis key prefix for the application.
const Namespace = "vaultpnl"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLMetrics TTLClass = "metrics"
	TTLEmbed   TTLClass = "embed"
	TTLChart   TTLClass = "chart"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Metrics time.Duration
	Embed   time.Duration
	Chart   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.Config) TTLSet {
	return TTLSet{
		Metrics: durationOrDefault(cfg.Metrics.TTL, metricscache.DefaultTTL),
		Embed:   durationOrDefault(cfg.EmbedCacheSeconds, 5*time.Minute),
		Chart:   durationOrDefault(cfg.Metrics.TTL, metricscache.DefaultTTL),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLMetrics:
		return t.Metrics
	case TTLEmbed:
		return t.Embed
	case TTLChart:
		return t.Chart
	default:
		return 0
	}
}

// Scaled applies a multiplier to a TTL class, useful for half/double TTL variants.
func (t TTLSet) Scaled(class TTLClass, factor float64) time.Duration {
	base := t.Duration(class)
	if base <= 0 || factor <= 0 {
		return base
	}
	return time.Duration(float64(base) * factor)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Vault Keys -------------------------------------------------------------

// VaultMetricsKey stores the bucketed trailing metrics of a vault.
func VaultMetricsKey(key metricscache.Key) string {
	return formatKey("vault", "metrics", key.Address, strconv.Itoa(key.ChainID),
		strconv.FormatInt(key.StartBucket, 10), strconv.FormatInt(key.EndBucket, 10))
}

// VaultChartKey memoizes a rendered share-price chart.
func VaultChartKey(address string, chainID int, startTS, endTS int64, full bool) string {
	scope := fmt.Sprintf("%d-%d", startTS, endTS)
	if full {
		scope = "full"
	}
	return formatKey("vault", "chart", strings.ToLower(address), strconv.Itoa(chainID), scope)
}

// EmbedPageKey memoizes a prepared upstream vault page.
func EmbedPageKey(network, address string) string {
	return formatKey("embed", strings.ToLower(network), strings.ToLower(address))
}
