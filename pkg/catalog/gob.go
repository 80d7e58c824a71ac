package catalog

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/openfuid/fuid-registry/pkg/fuid"
)

// gobImage is the gob-friendly flattening of dataFile: the catalog's key
// order is carried explicitly so the cache round-trips insertion order.
type gobImage struct {
	Keys               []string
	Entries            map[string]fuid.Entry
	CompanyMappings    map[string]string
	ProductMappings    map[string]map[string]string
	NextCompanyCounter int
	NextProductCounter int
	NextFUIDCounter    int
}

func gobPath(dataPath string) string {
	return dataPath + ".gob"
}

// gobFresh reports whether the gob cache exists and is at least as recent as
// the JSON data file.
func gobFresh(dataPath string) bool {
	gi, err := os.Stat(gobPath(dataPath))
	if err != nil {
		return false
	}
	ji, err := os.Stat(dataPath)
	if err != nil {
		// JSON missing entirely: the cache is all we have.
		return os.IsNotExist(err)
	}
	return !gi.ModTime().Before(ji.ModTime())
}

// saveGob serializes the store state to the cache file.
func saveGob(path string, d *dataFile) error {
	img := gobImage{
		Keys:               d.FUIDMappings.Keys(),
		Entries:            make(map[string]fuid.Entry, d.FUIDMappings.Len()),
		CompanyMappings:    d.CompanyMappings,
		ProductMappings:    d.ProductMappings,
		NextCompanyCounter: d.NextCompanyCounter,
		NextProductCounter: d.NextProductCounter,
		NextFUIDCounter:    d.NextFUIDCounter,
	}
	d.FUIDMappings.Each(func(k string, e fuid.Entry) bool {
		img.Entries[k] = e
		return true
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob cache: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(&img); err != nil {
		return fmt.Errorf("encode gob cache: %w", err)
	}
	return nil
}

// loadGob deserializes the cache file into d.
func loadGob(path string, d *dataFile) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob cache: %w", err)
	}
	defer f.Close()

	var img gobImage
	if err := gob.NewDecoder(f).Decode(&img); err != nil {
		return fmt.Errorf("decode gob cache: %w", err)
	}

	cat := fuid.NewCatalog()
	for _, k := range img.Keys {
		cat.Add(k, img.Entries[k])
	}
	d.FUIDMappings = cat
	d.CompanyMappings = img.CompanyMappings
	d.ProductMappings = img.ProductMappings
	d.NextCompanyCounter = img.NextCompanyCounter
	d.NextProductCounter = img.NextProductCounter
	d.NextFUIDCounter = img.NextFUIDCounter
	normalizeLoaded(d)
	return nil
}
