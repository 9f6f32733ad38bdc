package datafiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/angelmondragon/promopulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

// FileSet names the CSV file of each table inside a data directory.
type FileSet struct {
	Products  string
	Stores    string
	Sales     string
	Inventory string
}

var (
	// RawFiles are the generated, uncleaned tables.
	RawFiles = FileSet{
		Products:  "products.csv",
		Stores:    "stores.csv",
		Sales:     "sales_raw.csv",
		Inventory: "inventory_snapshot.csv",
	}
	// CleanFiles are the cleaner's output tables.
	CleanFiles = FileSet{
		Products:  "products_clean.csv",
		Stores:    "stores_clean.csv",
		Sales:     "sales_clean.csv",
		Inventory: "inventory_clean.csv",
	}
)

const (
	CampaignsFile = "campaign_plan.csv"
	IssuesFile    = "issues.csv"
)

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "data file not found: "+filepath.Base(path))
		}
		return zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open "+path)
	}
	defer f.Close()
	return parse(f)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create directory for "+path)
	}
	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create "+path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if err := write(f); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write "+path)
	}
	return nil
}

// LoadTables reads the four tables of files from dir. Every table is
// attempted so that all schema problems are reported together.
func LoadTables(dir string, files FileSet) (dataset.Tables, error) {
	var tables dataset.Tables
	var errs, err error

	tables.Products, err = readFile(filepath.Join(dir, files.Products), ReadProducts)
	errs = multierr.Append(errs, err)
	tables.Stores, err = readFile(filepath.Join(dir, files.Stores), ReadStores)
	errs = multierr.Append(errs, err)
	tables.Sales, err = readFile(filepath.Join(dir, files.Sales), ReadSales)
	errs = multierr.Append(errs, err)
	tables.Inventory, err = readFile(filepath.Join(dir, files.Inventory), ReadInventory)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return dataset.Tables{}, errs
	}
	return tables, nil
}

// SaveTables writes the four tables of files into dir.
func SaveTables(dir string, files FileSet, tables dataset.Tables) error {
	return multierr.Combine(
		writeFile(filepath.Join(dir, files.Products), func(w io.Writer) error { return WriteProducts(w, tables.Products) }),
		writeFile(filepath.Join(dir, files.Stores), func(w io.Writer) error { return WriteStores(w, tables.Stores) }),
		writeFile(filepath.Join(dir, files.Sales), func(w io.Writer) error { return WriteSales(w, tables.Sales) }),
		writeFile(filepath.Join(dir, files.Inventory), func(w io.Writer) error { return WriteInventory(w, tables.Inventory) }),
	)
}

// LoadCampaigns reads the campaign plan at path.
func LoadCampaigns(path string) ([]dataset.Campaign, error) {
	return readFile(path, ReadCampaigns)
}

// SaveCampaigns writes the campaign plan to path.
func SaveCampaigns(path string, campaigns []dataset.Campaign) error {
	return writeFile(path, func(w io.Writer) error { return WriteCampaigns(w, campaigns) })
}

// LoadIssues reads an issue log at path.
func LoadIssues(path string) ([]dataset.Issue, error) {
	return readFile(path, ReadIssues)
}

// SaveIssues writes the issue log to path.
func SaveIssues(path string, issues []dataset.Issue) error {
	return writeFile(path, func(w io.Writer) error { return WriteIssues(w, issues) })
}

// Describe summarises the row counts of tables for logs.
func Describe(t dataset.Tables) string {
	return fmt.Sprintf("%d products, %d stores, %d sales, %d inventory", len(t.Products), len(t.Stores), len(t.Sales), len(t.Inventory))
}
