// Package postgres serves archived vault history from a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/source"
)

// Schema creates the vault_history table when missing.
//
//go:embed schema.sql
var Schema string

const defaultQueryTimeout = 10 * time.Second

type historyRow struct {
	Ts             int64           `db:"ts"`
	SharePriceUSD  sql.NullFloat64 `db:"share_price_usd"`
	TotalAssetsUSD sql.NullFloat64 `db:"total_assets_usd"`
}

// Provider reads vault series from vault_history. Only Series is supported.
type Provider struct {
	conn    sqlx.SqlConn
	timeout time.Duration
}

// NewProvider wraps an existing connection.
func NewProvider(conn sqlx.SqlConn, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Provider{conn: conn, timeout: timeout}
}

func init() {
	source.RegisterProvider("postgres", func(name string, cfg *source.ProviderConfig) (source.Provider, error) {
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres provider %s: dsn is required", name)
		}
		return NewProvider(sqlx.NewSqlConn("pgx", cfg.DSN), cfg.Timeout), nil
	})
}

// Series implements source.SeriesSource. Addresses are matched case-insensitively.
func (p *Provider) Series(ctx context.Context, address string, chainID int, start, end *int64) ([]analytics.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var (
		where = []string{"address = $1", "chain_id = $2"}
		args  = []any{chain.Normalize(address), chainID}
	)
	if start != nil {
		args = append(args, *start)
		where = append(where, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		where = append(where, fmt.Sprintf("ts <= $%d", len(args)))
	}
	query := `SELECT ts, share_price_usd, total_assets_usd FROM public.vault_history WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ts ASC`

	var rows []historyRow
	if err := p.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("postgres: query vault_history vault=%s chain=%d: %w", address, chainID, err)
	}
	if len(rows) == 0 {
		return nil, source.ErrNoHistory
	}
	out := make([]analytics.Point, 0, len(rows))
	for _, row := range rows {
		pt := analytics.Point{Timestamp: row.Ts}
		if row.SharePriceUSD.Valid {
			pt.SharePriceUSD = analytics.Ptr(row.SharePriceUSD.Float64)
		}
		if row.TotalAssetsUSD.Valid {
			pt.TotalAssetsUSD = analytics.Ptr(row.TotalAssetsUSD.Float64)
		}
		out = append(out, pt)
	}
	return out, nil
}

// Archive upserts points into vault_history inside one transaction.
func (p *Provider) Archive(ctx context.Context, address string, chainID int, points []analytics.Point) error {
	if len(points) == 0 {
		return nil
	}
	stmt := `
INSERT INTO public.vault_history (
    address, chain_id, ts, share_price_usd, total_assets_usd, created_at, updated_at
) VALUES (
    $1, $2, $3, $4, $5, NOW(), NOW()
)
ON CONFLICT (address, chain_id, ts) DO UPDATE SET
    share_price_usd = EXCLUDED.share_price_usd,
    total_assets_usd = EXCLUDED.total_assets_usd,
    updated_at = NOW();`
	addr := chain.Normalize(address)
	err := p.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for _, pt := range points {
			if _, err := session.ExecCtx(ctx, stmt, addr, chainID, pt.Timestamp,
				nullFloat(pt.SharePriceUSD), nullFloat(pt.TotalAssetsUSD)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres: archive vault=%s chain=%d: %w", address, chainID, err)
	}
	logx.WithContext(ctx).Infof("postgres: archived vault=%s chain=%d points=%d", addr, chainID, len(points))
	return nil
}

// Migrate applies Schema.
func (p *Provider) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := p.conn.ExecCtx(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// Vault is not served from the archive.
func (p *Provider) Vault(context.Context, string, int) (*source.Vault, error) {
	return nil, source.ErrUnsupported
}

// Curator is not served from the archive.
func (p *Provider) Curator(context.Context, string) (*source.Curator, error) {
	return nil, source.ErrUnsupported
}

// CuratorVaults is not served from the archive.
func (p *Provider) CuratorVaults(context.Context, string, int) ([]source.VaultListing, error) {
	return nil, source.ErrUnsupported
}
