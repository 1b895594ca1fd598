package landed

import (
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
)

// Grade ladder thresholds, evaluated top-down, first match wins.
var (
	gradeSMargin = decimal.NewFromFloat(0.20)
	gradeSRoi    = decimal.NewFromFloat(0.50)
	gradeAMargin = decimal.NewFromFloat(0.15)
	gradeARoi    = decimal.NewFromFloat(0.30)
	gradeBMargin = decimal.NewFromFloat(0.10)
	gradeBRoi    = decimal.NewFromFloat(0.20)
)

// grade applies the ladder. The absolute profit floor dominates: below
// it the offer grades D no matter how high margin or ROI look.
func (c *Calculator) grade(r types.ProfitResult) types.Grade {
	switch {
	case r.ProfitUsd.LessThan(c.fees.MinProfitUsd):
		return types.GradeD
	case r.MarginPercent.GreaterThanOrEqual(gradeSMargin) && r.RoiPercent.GreaterThanOrEqual(gradeSRoi):
		return types.GradeS
	case r.MarginPercent.GreaterThanOrEqual(gradeAMargin) && r.RoiPercent.GreaterThanOrEqual(gradeARoi):
		return types.GradeA
	case r.MarginPercent.GreaterThanOrEqual(gradeBMargin) && r.RoiPercent.GreaterThanOrEqual(gradeBRoi):
		return types.GradeB
	default:
		return types.GradeC
	}
}
