package cleaning

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

// CleanStores standardizes city names and corrects unknown channels and
// fulfillment types. Stores are never dropped.
func (c *Cleaner) CleanStores(ctx context.Context, raw []dataset.Store) Result[dataset.Store] {
	journal := NewJournal(dataset.TableStores)
	rows := append([]dataset.Store{}, raw...)

	for i := range rows {
		s := &rows[i]

		if fix, changed := standardizeCity(s.City); changed {
			s.City = fix.value
			journal.Record(s.StoreID, fix.issueType, fix.detail)
		}

		if s.Channel != strings.TrimSpace(s.Channel) || ValidateChannel(s.Channel) != nil {
			corrected := enums.ChannelApp.String()
			if parsed, err := enums.ParseChannel(s.Channel); err == nil {
				corrected = parsed.String()
			}
			journal.Record(s.StoreID, enums.IssueInvalidChannel,
				fmt.Sprintf("Invalid channel: %q -> %q", s.Channel, corrected))
			s.Channel = corrected
		}

		if s.FulfillmentType != strings.TrimSpace(s.FulfillmentType) || ValidateFulfillmentType(s.FulfillmentType) != nil {
			corrected := enums.FulfillmentOwn.String()
			if parsed, err := enums.ParseFulfillmentType(s.FulfillmentType); err == nil {
				corrected = parsed.String()
			}
			journal.Record(s.StoreID, enums.IssueInvalidValue,
				fmt.Sprintf("Invalid fulfillment_type: %q -> %q", s.FulfillmentType, corrected))
			s.FulfillmentType = corrected
		}
	}

	return finish(ctx, c, journal, len(raw), rows)
}
