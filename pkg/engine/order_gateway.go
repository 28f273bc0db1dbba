package engine

import (
	"context"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

type OrderGateway interface {
	Start(ctx context.Context) error

	// engine to client
	OnOrderReport(ctx context.Context, order model.Order)
}
