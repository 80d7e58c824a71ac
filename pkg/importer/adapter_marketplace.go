package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/openfuid/fuid-registry/pkg/catalog"
)

func init() {
	Register(&marketplaceAdapter{
		id:          "aws-marketplace",
		platform:    "AWS",
		description: "AWS Marketplace product listing export (CSV)",
		defaultURL:  "https://data.openfuid.org/exports/aws-marketplace.csv",
		license:     "Proprietary",
		charset:     "utf-8",
	})
	Register(&marketplaceAdapter{
		id:          "azure-marketplace",
		platform:    "Azure",
		description: "Azure Marketplace product listing export (CSV)",
		defaultURL:  "https://data.openfuid.org/exports/azure-marketplace.zip",
		license:     "Proprietary",
		charset:     "windows-1252",
	})
	Register(&marketplaceAdapter{
		id:          "gcp-marketplace",
		platform:    "GCP",
		description: "Google Cloud Marketplace product listing export (CSV)",
		defaultURL:  "https://data.openfuid.org/exports/gcp-marketplace.csv",
		license:     "Proprietary",
		charset:     "utf-8",
	})
}

// marketplaceAdapter imports a cloud marketplace CSV export. All marketplaces
// share the same column shape (company, product, optional version/url/categories),
// so one adapter type covers them, parameterized per platform.
type marketplaceAdapter struct {
	id          string
	platform    string
	description string
	defaultURL  string
	license     string
	charset     string
}

func (a *marketplaceAdapter) ID() string          { return a.id }
func (a *marketplaceAdapter) Platform() string    { return a.platform }
func (a *marketplaceAdapter) Description() string { return a.description }
func (a *marketplaceAdapter) DefaultURL() string  { return a.defaultURL }
func (a *marketplaceAdapter) License() string     { return a.license }

func (a *marketplaceAdapter) Import(ctx context.Context, sourceURL string, store *catalog.Store) (*Report, error) {
	report := &Report{
		AdapterID: a.id,
		Platform:  a.platform,
		SourceURL: sourceURL,
		StartedAt: time.Now(),
	}

	dlDir, err := os.MkdirTemp("", "fuid-import-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dlDir)

	dest := filepath.Join(dlDir, filepath.Base(sourceURL))
	if err := downloadFile(ctx, sourceURL, dest); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}

	csvPath := dest
	if strings.HasSuffix(strings.ToLower(dest), ".zip") {
		files, err := unzipFile(dest, dlDir)
		if err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		csvPath = ""
		for _, f := range files {
			if strings.HasSuffix(strings.ToLower(f), ".csv") {
				csvPath = f
				break
			}
		}
		if csvPath == "" {
			return nil, fmt.Errorf("no CSV found in ZIP")
		}
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := a.decodeCharset(f)
	if err != nil {
		return nil, err
	}

	if err := a.importCSV(ctx, reader, store, report); err != nil {
		return nil, err
	}
	report.FinishedAt = time.Now()
	return report, nil
}

// decodeCharset wraps r with a decoder for the adapter's charset. Marketplace
// exports are not always UTF-8; Azure's come out as windows-1252.
func (a *marketplaceAdapter) decodeCharset(r io.Reader) (io.Reader, error) {
	if a.charset == "" || strings.EqualFold(a.charset, "utf-8") {
		return r, nil
	}
	enc, err := htmlindex.Get(a.charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", a.charset, err)
	}
	return enc.NewDecoder().Reader(r), nil
}

// Column name candidates, in priority order. Exports vary between
// "companyName"/"vendor" style headers depending on the marketplace.
var (
	companyColumns  = []string{"companyname", "company", "vendor", "seller"}
	productColumns  = []string{"rawproductname", "productname", "product", "title"}
	versionColumns  = []string{"version"}
	urlColumns      = []string{"url", "producturl", "listingurl"}
	categoryColumns = []string{"categories", "category"}
)

func resolveColumn(colIdx map[string]int, candidates []string) (int, bool) {
	for _, c := range candidates {
		if i, ok := colIdx[c]; ok {
			return i, true
		}
	}
	return 0, false
}

// importCSV reads marketplace rows from r and registers each one in the store.
// Rows missing a company or product are counted as skipped, not fatal.
func (a *marketplaceAdapter) importCSV(ctx context.Context, r io.Reader, store *catalog.Store, report *Report) error {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, h := range header {
		colIdx[strings.TrimSpace(strings.ToLower(h))] = i
	}

	companyCol, hasCompany := resolveColumn(colIdx, companyColumns)
	productCol, hasProduct := resolveColumn(colIdx, productColumns)
	if !hasCompany || !hasProduct {
		return fmt.Errorf("company/product columns not found in header %v", header)
	}
	versionCol, hasVersion := resolveColumn(colIdx, versionColumns)
	urlCol, hasURL := resolveColumn(colIdx, urlColumns)
	categoryCol, hasCategory := resolveColumn(colIdx, categoryColumns)

	field := func(record []string, col int, ok bool) string {
		if !ok || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			continue
		}
		report.Rows++

		company := field(record, companyCol, true)
		product := field(record, productCol, true)
		if company == "" || product == "" {
			report.Skipped++
			continue
		}

		version := field(record, versionCol, hasVersion)
		if version == "" {
			version = ExtractVersion(product)
		}
		if strings.EqualFold(version, NoVersionFound) {
			version = ""
		}

		result, err := store.Register(catalog.RegisterRequest{
			Company:    company,
			Product:    product,
			Version:    version,
			URL:        field(record, urlCol, hasURL),
			Platform:   a.platform,
			Categories: field(record, categoryCol, hasCategory),
		})
		if err != nil {
			report.Skipped++
			continue
		}
		if result.FUIDStatus == catalog.StatusNew {
			report.Registered++
		} else {
			report.Existing++
		}
	}
	return nil
}
