package logic

import (
	"context"
	"fmt"
	"strings"

	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/analytics"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/format"
)

// vaultQuery is a validated vault PnL request.
type vaultQuery struct {
	address   string
	chainID   int
	network   chain.Network
	startDate string
	endDate   string
	startTS   int64
	endTS     int64
	full      bool
}

func resolveQuery(svcCtx *svc.ServiceContext, req *types.VaultPnlRequest) (vaultQuery, error) {
	address := strings.TrimSpace(req.VaultAddress)
	if address == "" || req.NetworkID == 0 {
		return vaultQuery{}, ErrMissingVault
	}
	if !chain.LooksLikeAddress(address) {
		return vaultQuery{}, ErrInvalidAddress
	}
	network, ok := chain.NetworkByID(req.NetworkID)
	if !ok {
		return vaultQuery{}, fmt.Errorf("%w: %d", chain.ErrUnknownNetwork, req.NetworkID)
	}

	startDefault, endDefault := format.DefaultRange(svcCtx.Now(), svcCtx.Config.DefaultRangeDays)
	q := vaultQuery{
		address:   address,
		chainID:   req.NetworkID,
		network:   network,
		startDate: firstNonEmpty(req.StartDate, startDefault),
		endDate:   firstNonEmpty(req.EndDate, endDefault),
		full:      req.FullHistory,
	}
	var err error
	if q.startTS, err = format.ParseDate(q.startDate); err != nil {
		return vaultQuery{}, err
	}
	if q.endTS, err = format.ParseDate(q.endDate); err != nil {
		return vaultQuery{}, err
	}
	if !q.full && q.endTS <= q.startTS {
		return vaultQuery{}, ErrInvalidRange
	}
	return q, nil
}

// pricedWindow is the fetched series with the boundaries picked on its priced points.
type pricedWindow struct {
	series     []analytics.Point
	priced     []analytics.Point
	boundaries analytics.BoundaryPair
	pnl        float64
}

func loadWindow(ctx context.Context, svcCtx *svc.ServiceContext, q vaultQuery) (*pricedWindow, error) {
	var start, end *int64
	if !q.full {
		start, end = &q.startTS, &q.endTS
	}
	series, err := svcCtx.Source.Series(ctx, q.address, q.chainID, start, end)
	if err != nil {
		return nil, err
	}

	priced := make([]analytics.Point, 0, len(series))
	for _, p := range series {
		if p.HasPrice() {
			priced = append(priced, p)
		}
	}
	if len(priced) == 0 {
		return nil, ErrNoPrices
	}

	var pair analytics.BoundaryPair
	if q.full {
		pair, err = analytics.FullRange(priced)
	} else {
		pair, err = analytics.SelectBoundaries(priced, q.startTS, q.endTS)
	}
	if err != nil {
		return nil, err
	}
	pnl, err := analytics.PnL(pair.Start.Price(), pair.End.Price())
	if err != nil {
		return nil, err
	}
	return &pricedWindow{series: series, priced: priced, boundaries: pair, pnl: pnl}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
