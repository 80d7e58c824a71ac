// Package fuid implements the FUID catalog model and the search engine
// that matches free-form queries against it.
package fuid

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one catalog row: a company/product/version triple with its
// derived codes and the FUID identifier built from them.
type Entry struct {
	Identifier  string `json:"identifier"`
	Company     string `json:"company"`
	Product     string `json:"product"`
	CompanyCode string `json:"companyCode"`
	ProductCode string `json:"productCode"`
	VersionCode string `json:"versionCode"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	Platform    string `json:"platform"`
	Categories  string `json:"categories"`
}

// MatchType tags how a search result was produced.
type MatchType string

const (
	IdentifierMatch MatchType = "IdentifierMatch"
	CompanyMatch    MatchType = "CompanyMatch"
	ProductMatch    MatchType = "ProductMatch"
	ClosestMatch    MatchType = "ClosestMatch"
)

// Match is one search result row.
// ClosestMatchTerm and OriginalQuery are set only for ClosestMatch rows.
type Match struct {
	Entry
	MatchType        MatchType `json:"matchType"`
	SimilarityScore  float64   `json:"similarityScore"`
	ClosestMatchTerm string    `json:"closestMatchTerm,omitempty"`
	OriginalQuery    string    `json:"originalQuery,omitempty"`
}

// Catalog is an insertion-ordered mapping of entry key to Entry.
// Iteration order is insertion order; the closest-match tie-break rule
// depends on it, so the order must survive JSON round-trips.
type Catalog struct {
	keys    []string
	entries map[string]Entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add inserts or replaces an entry. A replaced entry keeps its original
// position in the iteration order.
func (c *Catalog) Add(key string, e Entry) {
	if _, exists := c.entries[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = e
}

// Clone returns a copy sharing nothing with the original. Stores use it for
// copy-on-write updates so in-flight searches keep a stable snapshot.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	if c == nil {
		return out
	}
	out.keys = make([]string, len(c.keys))
	copy(out.keys, c.keys)
	for k, e := range c.entries {
		out.entries[k] = e
	}
	return out
}

// Get returns the entry for key.
func (c *Catalog) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the entry keys in insertion order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Each calls fn for every entry in insertion order until fn returns false.
func (c *Catalog) Each(fn func(key string, e Entry) bool) {
	if c == nil {
		return
	}
	for _, k := range c.keys {
		if !fn(k, c.entries[k]) {
			return
		}
	}
}

// MarshalJSON writes the catalog as a JSON object in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		eb, err := json.Marshal(c.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving its key order.
// encoding/json map decoding would randomize it.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	c.keys = nil
	c.entries = make(map[string]Entry)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected string key, got %v", keyTok)
		}
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("catalog entry %q: %w", key, err)
		}
		c.Add(key, e)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
