package datafiles

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	"github.com/angelmondragon/promopulse-backend/pkg/enums"
)

var (
	productColumns   = []string{"product_id", "category", "brand", "base_price_aed", "unit_cost_aed", "tax_rate", "launch_flag"}
	storeColumns     = []string{"store_id", "city", "channel", "fulfillment_type"}
	saleColumns      = []string{"order_id", "order_time", "product_id", "store_id", "qty", "selling_price_aed", "discount_pct", "payment_status", "return_flag"}
	inventoryColumns = []string{"snapshot_date", "product_id", "store_id", "stock_on_hand", "reorder_point", "lead_time_days"}
	campaignColumns  = []string{"campaign_id", "start_date", "end_date", "city", "channel", "category", "discount_pct", "promo_budget_aed"}
	issueColumns     = []string{"record_identifier", "issue_type", "issue_detail", "action_taken", "source_table"}

	requiredProducts  = []string{"product_id", "category", "brand", "base_price_aed", "unit_cost_aed"}
	requiredStores    = []string{"store_id", "city", "channel"}
	requiredSales     = []string{"order_id", "order_time", "product_id", "store_id", "qty", "selling_price_aed", "payment_status"}
	requiredInventory = []string{"snapshot_date", "product_id", "store_id", "stock_on_hand"}
)

// ReadProducts parses a products CSV.
func ReadProducts(r io.Reader) ([]dataset.Product, error) {
	s, err := readSheet(r, "Products", requiredProducts)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Product, 0, len(s.rows))
	var errs error
	for i, row := range s.rows {
		line := i + 2
		base, err := s.number(row, line, "base_price_aed")
		errs = multierr.Append(errs, err)
		cost, err := s.optionalNumber(row, line, "unit_cost_aed")
		errs = multierr.Append(errs, err)
		var tax float64
		if t, err := s.optionalNumber(row, line, "tax_rate"); err != nil {
			errs = multierr.Append(errs, err)
		} else if t != nil {
			tax = *t
		}
		out = append(out, dataset.Product{
			ProductID:    s.cell(row, "product_id"),
			Category:     s.cell(row, "category"),
			Brand:        s.cell(row, "brand"),
			BasePriceAED: base,
			UnitCostAED:  cost,
			TaxRate:      tax,
			LaunchFlag:   s.cell(row, "launch_flag"),
		})
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ReadStores parses a stores CSV.
func ReadStores(r io.Reader) ([]dataset.Store, error) {
	s, err := readSheet(r, "Stores", requiredStores)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Store, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, dataset.Store{
			StoreID:         s.cell(row, "store_id"),
			City:            s.cell(row, "city"),
			Channel:         s.cell(row, "channel"),
			FulfillmentType: s.cell(row, "fulfillment_type"),
		})
	}
	return out, nil
}

// ReadSales parses a sales CSV. order_time is kept verbatim; city and
// category are read when the file carries them.
func ReadSales(r io.Reader) ([]dataset.Sale, error) {
	s, err := readSheet(r, "Sales", requiredSales)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Sale, 0, len(s.rows))
	var errs error
	for i, row := range s.rows {
		line := i + 2
		qty, err := s.integer(row, line, "qty")
		errs = multierr.Append(errs, err)
		price, err := s.number(row, line, "selling_price_aed")
		errs = multierr.Append(errs, err)
		discount, err := s.optionalNumber(row, line, "discount_pct")
		errs = multierr.Append(errs, err)
		out = append(out, dataset.Sale{
			OrderID:         s.cell(row, "order_id"),
			OrderTime:       s.cell(row, "order_time"),
			ProductID:       s.cell(row, "product_id"),
			StoreID:         s.cell(row, "store_id"),
			Qty:             qty,
			SellingPriceAED: price,
			DiscountPct:     discount,
			PaymentStatus:   s.cell(row, "payment_status"),
			ReturnFlag:      s.cell(row, "return_flag"),
			City:            s.optionalText(row, "city"),
			Category:        s.optionalText(row, "category"),
		})
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ReadInventory parses an inventory snapshot CSV.
func ReadInventory(r io.Reader) ([]dataset.InventorySnapshot, error) {
	s, err := readSheet(r, "Inventory", requiredInventory)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.InventorySnapshot, 0, len(s.rows))
	var errs error
	for i, row := range s.rows {
		line := i + 2
		stock, err := s.integer(row, line, "stock_on_hand")
		errs = multierr.Append(errs, err)
		snap := dataset.InventorySnapshot{
			SnapshotDate: s.cell(row, "snapshot_date"),
			ProductID:    s.cell(row, "product_id"),
			StoreID:      s.cell(row, "store_id"),
			StockOnHand:  stock,
		}
		if s.has("reorder_point") {
			snap.ReorderPoint, err = s.integer(row, line, "reorder_point")
			errs = multierr.Append(errs, err)
		}
		if s.has("lead_time_days") {
			snap.LeadTimeDays, err = s.integer(row, line, "lead_time_days")
			errs = multierr.Append(errs, err)
		}
		out = append(out, snap)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ReadCampaigns parses a campaign plan CSV.
func ReadCampaigns(r io.Reader) ([]dataset.Campaign, error) {
	s, err := readSheet(r, "Campaigns", campaignColumns)
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Campaign, 0, len(s.rows))
	var errs error
	for i, row := range s.rows {
		line := i + 2
		discount, err := s.number(row, line, "discount_pct")
		errs = multierr.Append(errs, err)
		budget, err := s.number(row, line, "promo_budget_aed")
		errs = multierr.Append(errs, err)
		out = append(out, dataset.Campaign{
			CampaignID:     s.cell(row, "campaign_id"),
			StartDate:      s.cell(row, "start_date"),
			EndDate:        s.cell(row, "end_date"),
			City:           s.cell(row, "city"),
			Channel:        s.cell(row, "channel"),
			Category:       s.cell(row, "category"),
			DiscountPct:    discount,
			PromoBudgetAED: budget,
		})
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ReadIssues parses an issue log CSV.
func ReadIssues(r io.Reader) ([]dataset.Issue, error) {
	s, err := readSheet(r, "Issues", issueColumns[:4])
	if err != nil {
		return nil, err
	}
	out := make([]dataset.Issue, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, dataset.Issue{
			Table:            s.cell(row, "source_table"),
			RecordIdentifier: s.cell(row, "record_identifier"),
			IssueType:        enums.IssueType(s.cell(row, "issue_type")),
			IssueDetail:      s.cell(row, "issue_detail"),
			ActionTaken:      enums.ActionTaken(s.cell(row, "action_taken")),
		})
	}
	return out, nil
}

// money writes amounts and percentages with two decimal places.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}

func optionalText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func writeAll(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// WriteProducts writes products as CSV.
func WriteProducts(w io.Writer, rows []dataset.Product) error {
	records := make([][]string, 0, len(rows))
	for _, p := range rows {
		records = append(records, []string{
			p.ProductID, p.Category, p.Brand, money(p.BasePriceAED), optionalMoney(p.UnitCostAED),
			money(p.TaxRate), p.LaunchFlag,
		})
	}
	return writeAll(w, productColumns, records)
}

// WriteStores writes stores as CSV.
func WriteStores(w io.Writer, rows []dataset.Store) error {
	records := make([][]string, 0, len(rows))
	for _, s := range rows {
		records = append(records, []string{s.StoreID, s.City, s.Channel, s.FulfillmentType})
	}
	return writeAll(w, storeColumns, records)
}

// WriteSales writes sales as CSV. The optional city and category columns
// are emitted only when at least one row carries them.
func WriteSales(w io.Writer, rows []dataset.Sale) error {
	withCity, withCategory := false, false
	for _, s := range rows {
		withCity = withCity || s.City != nil
		withCategory = withCategory || s.Category != nil
	}
	header := append([]string(nil), saleColumns...)
	if withCity {
		header = append(header, "city")
	}
	if withCategory {
		header = append(header, "category")
	}

	records := make([][]string, 0, len(rows))
	for _, s := range rows {
		record := []string{
			s.OrderID, s.OrderTime, s.ProductID, s.StoreID, strconv.Itoa(s.Qty),
			money(s.SellingPriceAED), optionalMoney(s.DiscountPct), s.PaymentStatus, s.ReturnFlag,
		}
		if withCity {
			record = append(record, optionalText(s.City))
		}
		if withCategory {
			record = append(record, optionalText(s.Category))
		}
		records = append(records, record)
	}
	return writeAll(w, header, records)
}

// WriteInventory writes inventory snapshots as CSV.
func WriteInventory(w io.Writer, rows []dataset.InventorySnapshot) error {
	records := make([][]string, 0, len(rows))
	for _, inv := range rows {
		records = append(records, []string{
			inv.SnapshotDate, inv.ProductID, inv.StoreID, strconv.Itoa(inv.StockOnHand),
			strconv.Itoa(inv.ReorderPoint), strconv.Itoa(inv.LeadTimeDays),
		})
	}
	return writeAll(w, inventoryColumns, records)
}

// WriteCampaigns writes a campaign plan as CSV.
func WriteCampaigns(w io.Writer, rows []dataset.Campaign) error {
	records := make([][]string, 0, len(rows))
	for _, c := range rows {
		records = append(records, []string{
			c.CampaignID, c.StartDate, c.EndDate, c.City, c.Channel, c.Category,
			money(c.DiscountPct), money(c.PromoBudgetAED),
		})
	}
	return writeAll(w, campaignColumns, records)
}

// WriteIssues writes the issue log as CSV.
func WriteIssues(w io.Writer, rows []dataset.Issue) error {
	records := make([][]string, 0, len(rows))
	for _, i := range rows {
		records = append(records, []string{
			i.RecordIdentifier, i.IssueType.String(), i.IssueDetail, i.ActionTaken.String(), i.Table,
		})
	}
	return writeAll(w, issueColumns, records)
}
