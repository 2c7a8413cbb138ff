package logic

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"

	"vaultpnl/internal/cache"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/chart"
	"vaultpnl/pkg/format"
)

type VaultChartLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewVaultChartLogic(ctx context.Context, svcCtx *svc.ServiceContext) *VaultChartLogic {
	return &VaultChartLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// VaultChart renders the share-price chart of the requested window as PNG.
func (l *VaultChartLogic) VaultChart(req *types.VaultPnlRequest) ([]byte, error) {
	q, err := resolveQuery(l.svcCtx, req)
	if err != nil {
		return nil, err
	}
	key := cache.VaultChartKey(q.address, q.chainID, q.startTS, q.endTS, q.full)
	return svc.Memoize(l.svcCtx.ChartCache, key, func() ([]byte, error) {
		window, err := loadWindow(l.ctx, l.svcCtx, q)
		if err != nil {
			return nil, err
		}
		title := fmt.Sprintf("%s • %s", shortAddress(q.address), q.network.Slug)
		subtitle := fmt.Sprintf("PnL %s | %s → %s",
			format.Percent(&window.pnl),
			format.Date(window.boundaries.Start.Timestamp),
			format.Date(window.boundaries.End.Timestamp))
		img, err := chart.SharePrice(title, subtitle, window.priced)
		if err != nil {
			l.Errorf("vault chart: render vault=%s chain=%d err=%v", q.address, q.chainID, err)
			return nil, err
		}
		return img, nil
	})
}

func shortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}
