package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"vaultpnl/internal/cache"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/chain"
	"vaultpnl/pkg/embed"
)

type ProxyMorphoLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewProxyMorphoLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProxyMorphoLogic {
	return &ProxyMorphoLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ProxyMorpho returns the prepared upstream vault page.
func (l *ProxyMorphoLogic) ProxyMorpho(req *types.ProxyRequest) (*embed.Page, error) {
	network := strings.TrimSpace(req.Network)
	address := strings.TrimSpace(req.Address)
	if network == "" || address == "" {
		return nil, ErrMissingTarget
	}
	if !knownSlug(network) {
		return nil, fmt.Errorf("%w: %s", chain.ErrUnknownNetwork, network)
	}
	if !chain.LooksLikeAddress(address) {
		return nil, ErrInvalidAddress
	}
	return svc.Memoize(l.svcCtx.EmbedCache, cache.EmbedPageKey(network, address), func() (*embed.Page, error) {
		page, err := l.svcCtx.Embed.Fetch(l.ctx, network, address)
		if err != nil {
			l.Errorf("proxy morpho: network=%s vault=%s err=%v", network, address, err)
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return page, nil
	})
}

func knownSlug(slug string) bool {
	for _, n := range chain.Networks() {
		if n.Slug == slug {
			return true
		}
	}
	return false
}
