package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/internal/svc"
	"traderep-api/internal/types"
	"traderep-api/pkg/hyperliquid"
)

type TopTradersLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTopTradersLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TopTradersLogic {
	return &TopTradersLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TopTraders returns the filtered leaderboard snapshot.
func (l *TopTradersLogic) TopTraders(req *types.TopTradersReq) (*types.TopTradersResp, error) {
	traders, err := l.svcCtx.Pipeline.TopTraders(l.ctx, hyperliquid.TopTradersFilter{
		Limit:          req.Limit,
		MinDailyVolume: req.MinDailyVolume,
		MinDailyPnl:    req.MinDailyPnl,
		MinDailyRoi:    req.MinDailyRoi,
	})
	if err != nil {
		l.Errorf("top traders: %v", err)
		return nil, err
	}

	resp := &types.TopTradersResp{
		Traders: make([]types.TopTrader, 0, len(traders)),
		Count:   len(traders),
	}
	for _, trader := range traders {
		resp.Traders = append(resp.Traders, types.TopTrader{
			Address:      trader.Address,
			DisplayName:  trader.DisplayName,
			AccountValue: trader.AccountValue,
			DailyPnl:     trader.DailyPnl,
			DailyRoi:     trader.DailyRoi,
			DailyVolume:  trader.DailyVolume,
		})
	}
	return resp, nil
}
