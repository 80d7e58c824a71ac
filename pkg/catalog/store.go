// Package catalog persists the FUID catalog: a JSON data file holding the
// entries, the code mappings, and the allocation counters, with a gob cache
// for fast loading of large imported catalogs.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/openfuid/fuid-registry/pkg/fuid"
)

// dataFile is the on-disk schema: entries keyed by identifier plus the code
// mappings and durable allocation counters.
type dataFile struct {
	FUIDMappings       *fuid.Catalog                `json:"fuid_mappings"`
	CompanyMappings    map[string]string            `json:"company_mappings"`
	ProductMappings    map[string]map[string]string `json:"product_mappings"`
	NextCompanyCounter int                          `json:"next_company_counter"`
	NextProductCounter int                          `json:"next_product_counter"`
	NextFUIDCounter    int                          `json:"next_fuid_counter"`
}

func newDataFile() dataFile {
	return dataFile{
		FUIDMappings:       fuid.NewCatalog(),
		CompanyMappings:    make(map[string]string),
		ProductMappings:    make(map[string]map[string]string),
		NextCompanyCounter: 1,
		NextProductCounter: 1,
		NextFUIDCounter:    1,
	}
}

// Store owns the catalog data file. Reads hand out an immutable snapshot;
// writes clone the catalog first, so searches in flight never observe a
// partial update.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
	data   dataFile
}

// Open creates a store for the data file at path and loads it. A missing
// file yields an empty catalog; the file is created on first write.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger, data: newDataFile()}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the data file, preferring the gob cache when it is at least as
// fresh as the JSON. Used at startup and for SIGHUP hot reload.
func (s *Store) Load() error {
	loaded := newDataFile()

	if gobFresh(s.path) {
		if err := loadGob(gobPath(s.path), &loaded); err == nil {
			s.install(loaded)
			s.logger.Info("catalog loaded from gob cache", "entries", loaded.FUIDMappings.Len())
			return nil
		} else {
			s.logger.Warn("gob cache unreadable, falling back to JSON", "error", err)
		}
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.install(loaded)
			s.logger.Info("no data file, starting with empty catalog", "path", s.path)
			return nil
		}
		return fmt.Errorf("read data file %s: %w", s.path, err)
	}
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("parse data file %s: %w", s.path, err)
	}
	normalizeLoaded(&loaded)
	s.install(loaded)

	if err := saveGob(gobPath(s.path), &loaded); err != nil {
		s.logger.Warn("gob cache write failed", "error", err)
	}
	s.logger.Info("catalog loaded", "path", s.path, "entries", loaded.FUIDMappings.Len())
	return nil
}

// Reload re-reads the data file from disk.
func (s *Store) Reload() error {
	return s.Load()
}

func (s *Store) install(d dataFile) {
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
}

// normalizeLoaded fills nil maps from hand-edited or partial data files.
func normalizeLoaded(d *dataFile) {
	if d.FUIDMappings == nil {
		d.FUIDMappings = fuid.NewCatalog()
	}
	if d.CompanyMappings == nil {
		d.CompanyMappings = make(map[string]string)
	}
	if d.ProductMappings == nil {
		d.ProductMappings = make(map[string]map[string]string)
	}
	if d.NextCompanyCounter < 1 {
		d.NextCompanyCounter = 1
	}
	if d.NextProductCounter < 1 {
		d.NextProductCounter = 1
	}
	if d.NextFUIDCounter < 1 {
		d.NextFUIDCounter = 1
	}
}

// Snapshot returns the current catalog. Callers must treat it as read-only;
// the store never mutates a catalog it has handed out.
func (s *Store) Snapshot() *fuid.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.FUIDMappings
}

// Stats summarizes the catalog for the stats endpoint.
type Stats struct {
	TotalFUIDs      int `json:"totalFuids"`
	UniqueCompanies int `json:"uniqueCompanies"`
	UniqueProducts  int `json:"uniqueProducts"`
	UniqueVersions  int `json:"uniqueVersions"`
}

// Stats counts entries and distinct companies, products, and versions.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	cat := s.data.FUIDMappings
	s.mu.RUnlock()

	companies := make(map[string]bool)
	products := make(map[string]bool)
	versions := make(map[string]bool)
	cat.Each(func(_ string, e fuid.Entry) bool {
		if e.Company != "" {
			companies[e.Company] = true
		}
		if e.Product != "" {
			products[e.Product] = true
		}
		if e.Version != "" {
			versions[e.Version] = true
		}
		return true
	})
	return Stats{
		TotalFUIDs:      cat.Len(),
		UniqueCompanies: len(companies),
		UniqueProducts:  len(products),
		UniqueVersions:  len(versions),
	}
}

// RegisterRequest describes one FUID registration.
type RegisterRequest struct {
	Company    string `json:"company"`
	Product    string `json:"product"`
	Version    string `json:"version"`
	URL        string `json:"url"`
	Platform   string `json:"platform"`
	Categories string `json:"categories"`
}

// RegisterResult reports the entry plus whether each part already existed.
type RegisterResult struct {
	Entry         fuid.Entry `json:"entry"`
	CompanyStatus string     `json:"companyStatus"` // "New" or "Existing"
	ProductStatus string     `json:"productStatus"`
	FUIDStatus    string     `json:"fuidStatus"`
}

const (
	StatusNew      = "New"
	StatusExisting = "Existing"
)

// Register allocates (or reuses) codes for the company/product/version
// triple, builds the identifier, and persists the updated catalog. An exact
// triple that already exists is returned unchanged with Existing statuses.
func (s *Store) Register(req RegisterRequest) (*RegisterResult, error) {
	company := strings.TrimSpace(req.Company)
	product := strings.TrimSpace(req.Product)
	if company == "" || product == "" {
		return nil, fmt.Errorf("company and product are required")
	}
	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = "NA"
	}

	normCompany := fuid.Normalize(company)
	normProduct := fuid.Normalize(product)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Exact triple already registered?
	var existing *fuid.Entry
	s.data.FUIDMappings.Each(func(_ string, e fuid.Entry) bool {
		if fuid.Normalize(e.Company) == normCompany &&
			fuid.Normalize(e.Product) == normProduct &&
			e.Version == version {
			existing = &e
			return false
		}
		return true
	})
	if existing != nil {
		return &RegisterResult{
			Entry:         *existing,
			CompanyStatus: StatusExisting,
			ProductStatus: StatusExisting,
			FUIDStatus:    StatusExisting,
		}, nil
	}

	companyCode, companyStatus := s.companyCode(normCompany)
	productCode, productStatus := s.productCode(normCompany, normProduct)

	entry := fuid.Entry{
		Identifier:  fuid.BuildIdentifier(companyCode, productCode, version),
		Company:     company,
		Product:     product,
		CompanyCode: companyCode,
		ProductCode: productCode,
		VersionCode: fuid.GenerateVersionCode(version),
		Version:     version,
		URL:         strings.TrimSpace(req.URL),
		Platform:    strings.TrimSpace(req.Platform),
		Categories:  strings.TrimSpace(req.Categories),
	}

	next := s.data.FUIDMappings.Clone()
	next.Add(entry.Identifier, entry)
	s.data.FUIDMappings = next
	s.data.NextFUIDCounter++

	if err := s.save(); err != nil {
		return nil, err
	}

	return &RegisterResult{
		Entry:         entry,
		CompanyStatus: companyStatus,
		ProductStatus: productStatus,
		FUIDStatus:    StatusNew,
	}, nil
}

// companyCode reuses the mapped code for a known company, recovers the code
// from an existing entry when the mapping is missing, or allocates a new one.
// Caller holds the write lock.
func (s *Store) companyCode(normCompany string) (code, status string) {
	if code, ok := s.data.CompanyMappings[normCompany]; ok {
		return code, StatusExisting
	}
	var recovered string
	s.data.FUIDMappings.Each(func(_ string, e fuid.Entry) bool {
		if e.CompanyCode != "" && fuid.Normalize(e.Company) == normCompany {
			recovered = e.CompanyCode
			return false
		}
		return true
	})
	if recovered != "" {
		s.data.CompanyMappings[normCompany] = recovered
		return recovered, StatusExisting
	}

	code = fuid.GenerateCompanyCode(normCompany, s.data.NextCompanyCounter)
	s.data.CompanyMappings[normCompany] = code
	s.data.NextCompanyCounter++
	return code, StatusNew
}

// productCode works like companyCode but is scoped per company.
func (s *Store) productCode(normCompany, normProduct string) (code, status string) {
	if perCompany, ok := s.data.ProductMappings[normCompany]; ok {
		if code, ok := perCompany[normProduct]; ok {
			return code, StatusExisting
		}
	}
	var recovered string
	s.data.FUIDMappings.Each(func(_ string, e fuid.Entry) bool {
		if e.ProductCode != "" &&
			fuid.Normalize(e.Company) == normCompany &&
			fuid.Normalize(e.Product) == normProduct {
			recovered = e.ProductCode
			return false
		}
		return true
	})
	if s.data.ProductMappings[normCompany] == nil {
		s.data.ProductMappings[normCompany] = make(map[string]string)
	}
	if recovered != "" {
		s.data.ProductMappings[normCompany][normProduct] = recovered
		return recovered, StatusExisting
	}

	code = fuid.GenerateProductCode(s.data.NextProductCounter)
	s.data.ProductMappings[normCompany][normProduct] = code
	s.data.NextProductCounter++
	return code, StatusNew
}

// save writes the data file and refreshes the gob cache.
// Caller holds the write lock.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write data file %s: %w", s.path, err)
	}
	if err := saveGob(gobPath(s.path), &s.data); err != nil {
		s.logger.Warn("gob cache write failed", "error", err)
	}
	return nil
}
