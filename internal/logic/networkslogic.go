package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
	"vaultpnl/pkg/chain"
)

type NetworksLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewNetworksLogic(ctx context.Context, svcCtx *svc.ServiceContext) *NetworksLogic {
	return &NetworksLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *NetworksLogic) Networks() (resp *types.NetworksResponse, err error) {
	return &types.NetworksResponse{Networks: chain.Networks()}, nil
}
