package engine

import (
	"context"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type IEngine interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) error
	ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error
	CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error
}
