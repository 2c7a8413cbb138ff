package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"vaultpnl/internal/logic"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
)

func CuratorHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CuratorRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewCuratorLogic(r.Context(), svcCtx)
		resp, err := l.Curator(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
