package riskrule

import "github.com/joripage/matching-engine/pkg/engine/model"

type RiskRule interface {
	Check(addOrder *model.AddOrder) error
}
