package cleaning

import (
	"context"
	"fmt"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

// ImputedCostRatio is the share of base price used for a missing unit cost.
const ImputedCostRatio = 0.5

// CleanProducts imputes missing unit costs, caps costs above base price and
// corrects unknown categories. Products are never dropped.
func (c *Cleaner) CleanProducts(ctx context.Context, raw []dataset.Product) Result[dataset.Product] {
	journal := NewJournal(dataset.TableProducts)
	rows := dataset.CloneProducts(raw)
	if rows == nil {
		rows = []dataset.Product{}
	}

	for i := range rows {
		p := &rows[i]
		if p.UnitCostAED == nil {
			p.UnitCostAED = dataset.Float(p.BasePriceAED * ImputedCostRatio)
			journal.Record(p.ProductID, enums.IssueMissingValue,
				fmt.Sprintf("Missing unit_cost_aed - imputed as 50%% of %v", p.BasePriceAED))
		}
	}

	for i := range rows {
		p := &rows[i]
		if err := ValidateCostConstraint(FormatOptional(p.UnitCostAED), FormatNumber(p.BasePriceAED)); err == nil {
			continue
		}
		journal.Record(p.ProductID, enums.IssueConstraintViolation,
			fmt.Sprintf("unit_cost (%v) > base_price (%v) - capped", *p.UnitCostAED, p.BasePriceAED))
		p.UnitCostAED = dataset.Float(p.BasePriceAED)
	}

	for i := range rows {
		fix, changed := standardizeCategory(rows[i].Category)
		if !changed {
			continue
		}
		rows[i].Category = fix.value
		journal.Record(rows[i].ProductID, fix.issueType, fix.detail)
	}

	return finish(ctx, c, journal, len(raw), rows)
}
