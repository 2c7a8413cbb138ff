package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"vaultpnl/internal/logic"
	"vaultpnl/internal/svc"
	"vaultpnl/internal/types"
)

func ProxyMorphoHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ProxyRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewProxyMorphoLogic(r.Context(), svcCtx)
		page, err := l.ProxyMorpho(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err, func(w http.ResponseWriter, err error) {
				status := http.StatusBadRequest
				if errors.Is(err, logic.ErrUpstream) {
					status = http.StatusBadGateway
				}
				http.Error(w, err.Error(), status)
			})
			return
		}
		w.Header().Set("Content-Type", page.ContentType)
		w.WriteHeader(page.StatusCode)
		_, _ = w.Write([]byte(page.HTML))
	}
}
