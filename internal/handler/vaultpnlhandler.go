package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"vaultpnl/internal/logic"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
)

func VaultPnlHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VaultPnlRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewVaultPnlLogic(r.Context(), svcCtx)
		resp, err := l.VaultPnl(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
