package logic

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/format"
	"vaultpnl/pkg/source"
)

const (
	secondsPerDay   = 86400
	metricsParallel = 8
)

type CuratorLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCuratorLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CuratorLogic {
	return &CuratorLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Curator resolves a curator and lists its vaults by TVL, each annotated with
// cached trailing metrics.
func (l *CuratorLogic) Curator(req *types.CuratorRequest) (resp *types.CuratorResponse, err error) {
	query := strings.TrimSpace(req.Curator)
	if query == "" {
		return nil, ErrMissingCurator
	}
	cur, err := l.svcCtx.Source.Curator(l.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve curator %q: %w", query, err)
	}
	if cur == nil {
		return nil, ErrCuratorNotFound
	}
	listings, err := l.svcCtx.Source.CuratorVaults(l.ctx, cur.ID, l.svcCtx.Config.CuratorVaultLimit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return tvlOrZero(listings[i]) > tvlOrZero(listings[j])
	})

	resp = &types.CuratorResponse{Curator: profile(cur), Vaults: make([]types.CuratorVault, len(listings))}
	for i, item := range listings {
		resp.Vaults[i] = types.CuratorVault{
			ID:             item.ID,
			Name:           item.Name,
			Address:        item.Address,
			Whitelisted:    item.Whitelisted,
			ChainID:        item.ChainID,
			Network:        networkLabel(item.ChainID),
			AssetSymbol:    item.AssetSymbol,
			TotalAssetsUSD: item.TotalAssetsUSD,
			DisplayTVL:     format.USDShort(item.TotalAssetsUSD),
		}
	}
	l.annotate(resp.Vaults)
	return resp, nil
}

// annotate fills the trailing metrics of every vault. Failures degrade to N/A.
func (l *CuratorLogic) annotate(vaults []types.CuratorVault) {
	end := l.svcCtx.Now().Unix()
	start := end - int64(l.svcCtx.Config.Metrics.WindowDays)*secondsPerDay
	mr.ForEach(func(items chan<- int) {
		for i := range vaults {
			items <- i
		}
	}, func(i int) {
		v := &vaults[i]
		out := l.svcCtx.Metrics.Get(l.ctx, v.Address, v.ChainID, start, end)
		v.PnL30d = out.Metrics.PnL30d
		v.TVLChange30d = out.Metrics.TVLChange30d
		v.TVLPct30d = out.Metrics.TVLPct30d
		v.MetricsCached = out.Cached
	}, mr.WithWorkers(metricsParallel))
}

func profile(cur *source.Curator) types.CuratorProfile {
	p := types.CuratorProfile{
		ID:          cur.ID,
		Name:        cur.Name,
		Description: cur.Description,
		Verified:    cur.Verified,
		Addresses:   make([]types.CuratorAddress, 0, len(cur.Addresses)),
	}
	for _, a := range cur.Addresses {
		p.Addresses = append(p.Addresses, types.CuratorAddress{ChainID: a.ChainID, Address: a.Address})
	}
	return p
}

func tvlOrZero(v source.VaultListing) float64 {
	if v.TotalAssetsUSD == nil {
		return 0
	}
	return *v.TotalAssetsUSD
}

func networkLabel(chainID int) string {
	if n, ok := chain.NetworkByID(chainID); ok {
		return n.Slug
	}
	return fmt.Sprint(chainID)
}
