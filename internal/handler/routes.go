// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"traderep-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/healthz",
				Handler: HealthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/trader/:address/analysis",
				Handler: AnalyzeTraderHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/trader/:address/history",
				Handler: TraderHistoryHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/traders/top",
				Handler: TopTradersHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/traders/rated",
				Handler: RatedTradersHandler(serverCtx),
			},
		},
	)
}
