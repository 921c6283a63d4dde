package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/internal/pipeline"
	"traderep-api/internal/svc"
	"traderep-api/internal/types"
	"traderep-api/pkg/analytics"
)

type AnalyzeTraderLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalyzeTraderLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalyzeTraderLogic {
	return &AnalyzeTraderLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// AnalyzeTrader runs the full pipeline for one address and returns the report
// with non-finite figures mapped to null.
func (l *AnalyzeTraderLogic) AnalyzeTrader(req *types.AnalyzeTraderReq) (*types.AnalyzeTraderResp, error) {
	result, err := l.svcCtx.Pipeline.Run(l.ctx, req.Address, pipeline.Options{
		Refresh:     req.Refresh,
		WithInsight: req.Insight,
		Persist:     true,
	})
	if err != nil {
		l.Errorf("analyze trader %s: %v", req.Address, err)
		return nil, err
	}

	resp := &types.AnalyzeTraderResp{
		Report: analytics.JSONSafe(result.Report),
		Cached: result.Cached,
	}
	if result.Insight != nil {
		resp.Insight = analytics.JSONSafe(result.Insight)
	}
	return resp, nil
}
