package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/internal/svc"
	"traderep-api/internal/types"
)

type RatedTradersLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRatedTradersLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RatedTradersLogic {
	return &RatedTradersLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// RatedTraders ranks analyzed traders by their latest overall score.
func (l *RatedTradersLogic) RatedTraders(req *types.RatedTradersReq) (*types.RatedTradersResp, error) {
	rated, err := l.svcCtx.Repo.TopRated(l.ctx, req.Limit)
	if err != nil {
		l.Errorf("rated traders: %v", err)
		return nil, err
	}

	resp := &types.RatedTradersResp{
		Traders: make([]types.RatedTrader, 0, len(rated)),
		Count:   len(rated),
	}
	for _, trader := range rated {
		resp.Traders = append(resp.Traders, types.RatedTrader{
			Address:      trader.Address,
			OverallScore: trader.OverallScore,
			StyleTags:    trader.StyleTags,
			AnalyzedAt:   trader.CreatedAt,
		})
	}
	return resp, nil
}
