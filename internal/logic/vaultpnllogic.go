package logic

import (
	"context"
	"net/url"

	"github.com/zeromicro/go-zero/core/logx"

	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/format"
	"vaultpnl/pkg/source"
)

type VaultPnlLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewVaultPnlLogic(ctx context.Context, svcCtx *svc.ServiceContext) *VaultPnlLogic {
	return &VaultPnlLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *VaultPnlLogic) VaultPnl(req *types.VaultPnlRequest) (resp *types.VaultPnlResponse, err error) {
	q, err := resolveQuery(l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	window, err := loadWindow(l.ctx, l.svcCtx, q)
	if err != nil {
		l.Errorf("vault pnl: vault=%s chain=%d err=%v", q.address, q.chainID, err)
		return nil, err
	}

	resp = &types.VaultPnlResponse{
		VaultAddress: q.address,
		NetworkID:    q.chainID,
		Network:      q.network.Slug,
		StartDate:    q.startDate,
		EndDate:      q.endDate,
		Summary: types.PnlSummary{
			Start:         boundaryPoint(window.boundaries.Start),
			End:           boundaryPoint(window.boundaries.End),
			PnLDecimal:    window.pnl,
			PnLLabel:      format.Percent(&window.pnl),
			IsFullHistory: q.full,
		},
		ChartPoints: chartPoints(window.priced),
		Performance: analytics.ComputePerformance(window.series),
		TVLWindow:   analytics.SummarizeWindow(window.series, l.svcCtx.Config.Metrics.WindowDays),
		Composition: []types.CompositionRow{},
		Warnings:    []string{},
		MorphoURL:   l.svcCtx.SiteURL + q.network.Slug + "/vault/" + q.address,
		EmbedURL: "/proxy/morpho?" + url.Values{
			"network": {q.network.Slug},
			"address": {q.address},
		}.Encode(),
	}

	vault, err := l.svcCtx.Source.Vault(l.ctx, q.address, q.chainID)
	switch {
	case err != nil:
		l.Infof("vault pnl: vault details unavailable vault=%s chain=%d err=%v", q.address, q.chainID, err)
		resp.VaultError = err.Error()
	case vault != nil:
		l.attachVault(resp, vault, q.network.Slug)
	}
	return resp, nil
}

func (l *VaultPnlLogic) attachVault(resp *types.VaultPnlResponse, vault *source.Vault, network string) {
	total := 0.0
	if vault.TotalAssetsUSD != nil {
		total = *vault.TotalAssetsUSD
	}
	cash := analytics.CashRatio(total, vault.Allocations)
	rows := analytics.BuildComposition(total, vault.Allocations)

	resp.Vault = summarizeVault(vault, network, cash)
	resp.Composition = make([]types.CompositionRow, 0, len(rows))
	for _, row := range rows {
		resp.Composition = append(resp.Composition, types.CompositionRow{
			CompositionRow: row,
			TVL:            format.USDShort(&row.SupplyUSD),
			PercentLabel:   format.PercentPoints(row.Percent),
		})
	}
	if warnings := analytics.EvaluateRisk(&analytics.VaultState{CashRatio: cash}, rows); warnings != nil {
		resp.Warnings = warnings
	}
}

func summarizeVault(v *source.Vault, network string, cash *float64) *types.VaultSummary {
	return &types.VaultSummary{
		Name:            v.Name,
		Symbol:          v.Symbol,
		Address:         v.Address,
		Network:         network,
		AssetSymbol:     v.AssetSymbol,
		AssetName:       v.AssetName,
		Description:     v.Description,
		Whitelisted:     v.Whitelisted,
		Promoted:        v.Promoted,
		TVL:             format.USDShort(v.TotalAssetsUSD),
		RawTVL:          v.TotalAssetsUSD,
		APY:             v.APY,
		NetAPY:          v.NetAPY,
		Fee:             v.Fee,
		SharePrice:      v.SharePriceUSD,
		SharePriceLabel: format.SharePrice(v.SharePriceUSD),
		CashRatio:       cash,
		Curator:         v.Curator,
		Guardian:        v.Guardian,
		Owner:           v.Owner,
	}
}

func boundaryPoint(p analytics.Point) types.BoundaryPoint {
	return types.BoundaryPoint{
		Timestamp:      p.Timestamp,
		Label:          format.Timestamp(p.Timestamp),
		SharePriceUSD:  p.SharePriceUSD,
		TotalAssetsUSD: p.TotalAssetsUSD,
	}
}

func chartPoints(priced []analytics.Point) []types.ChartPoint {
	out := make([]types.ChartPoint, 0, len(priced))
	for _, p := range priced {
		out = append(out, types.ChartPoint{
			Timestamp:      p.Timestamp * 1000,
			Value:          p.SharePriceUSD,
			TotalAssetsUSD: p.TotalAssetsUSD,
		})
	}
	return out
}
