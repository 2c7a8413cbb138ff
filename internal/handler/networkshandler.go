package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"vaultpnl/internal/logic"
	"vaultpnl/internal/svc"
)

func NetworksHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewNetworksLogic(r.Context(), svcCtx)
		resp, err := l.Networks()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
