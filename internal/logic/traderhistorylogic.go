package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"

	"traderep-api/internal/pipeline"
	"traderep-api/internal/repo"
	"traderep-api/internal/svc"
	"traderep-api/internal/types"
	"traderep-api/pkg/analytics"
)

type TraderHistoryLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTraderHistoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TraderHistoryLogic {
	return &TraderHistoryLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// TraderHistory lists stored analyses for the address, newest first.
func (l *TraderHistoryLogic) TraderHistory(req *types.TraderHistoryReq) (*types.TraderHistoryResp, error) {
	address := strings.ToLower(strings.TrimSpace(req.Address))
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", pipeline.ErrInvalidAddress, req.Address)
	}

	entries, err := l.svcCtx.Repo.History(l.ctx, address, req.Limit)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		l.Errorf("trader history %s: %v", address, err)
		return nil, err
	}
	if entries == nil {
		entries = []repo.StoredAnalysis{}
	}

	return &types.TraderHistoryResp{
		Address: address,
		Entries: analytics.JSONSafe(entries),
		Count:   len(entries),
	}, nil
}
