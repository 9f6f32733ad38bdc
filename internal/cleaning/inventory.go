package cleaning

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

// CleanInventory zeroes negative stock and caps extreme stock at StockCap.
// Snapshots are never dropped.
func (c *Cleaner) CleanInventory(ctx context.Context, raw []dataset.InventorySnapshot) Result[dataset.InventorySnapshot] {
	journal := NewJournal(dataset.TableInventory)
	rows := append([]dataset.InventorySnapshot{}, raw...)

	for i := range rows {
		if rows[i].StockOnHand >= 0 {
			continue
		}
		journal.Record(rows[i].RecordID(), enums.IssueImpossibleValue,
			fmt.Sprintf("Negative stock %d corrected to 0", rows[i].StockOnHand))
		rows[i].StockOnHand = 0
	}

	for i := range rows {
		if ValidateStock(strconv.Itoa(rows[i].StockOnHand)) == nil {
			continue
		}
		journal.Record(rows[i].RecordID(), enums.IssueOutlierValue,
			fmt.Sprintf("Extreme stock %d capped to %d", rows[i].StockOnHand, StockCap))
		rows[i].StockOnHand = StockCap
	}

	return finish(ctx, c, journal, len(raw), rows)
}
