package fuid

import "testing"

func testCatalog() *Catalog {
	c := NewCatalog()
	c.Add("FUID-ACME:00001-0001-NA", Entry{
		Identifier: "FUID-ACME:00001-0001-NA",
		Company:    "Acme Corp",
		Product:    "Widget",
		Version:    "NA",
		Platform:   "AWS",
	})
	c.Add("FUID-MICRO:00002-0002-2019", Entry{
		Identifier: "FUID-MICRO:00002-0002-2019",
		Company:    "Microsoft",
		Product:    "Windows Server",
		Version:    "2019",
		Platform:   "Azure",
	})
	c.Add("FUID-MICRO:00002-0003-NA", Entry{
		Identifier: "FUID-MICRO:00002-0003-NA",
		Company:    "Microsoft",
		Product:    "Azure DevOps",
		Version:    "NA",
		Platform:   "Azure",
	})
	c.Add("FUID-MICRO:00002-0004-NA", Entry{
		Identifier: "FUID-MICRO:00002-0004-NA",
		Company:    "Microsoft",
		Product:    "Excel",
		Version:    "NA",
		Platform:   "AWS",
	})
	return c
}

func TestSearchIdentifierMatch(t *testing.T) {
	c := testCatalog()

	results := Search("fuid-acme:00001-0001-na", c, Options{})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].MatchType != IdentifierMatch {
		t.Errorf("MatchType = %q, want IdentifierMatch", results[0].MatchType)
	}
	if results[0].SimilarityScore != 100 {
		t.Errorf("SimilarityScore = %v, want 100", results[0].SimilarityScore)
	}
	if results[0].Company != "Acme Corp" {
		t.Errorf("Company = %q, want Acme Corp", results[0].Company)
	}
}

func TestSearchIdentifierMiss(t *testing.T) {
	// Identifier-style queries short-circuit: no fallback to other stages.
	results := Search("FUID-NOPE", testCatalog(), Options{})
	if len(results) != 0 {
		t.Fatalf("results = %d, want 0", len(results))
	}
}

func TestSearchExactCompany(t *testing.T) {
	results := Search("Microsoft", testCatalog(), Options{})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.MatchType != CompanyMatch {
			t.Errorf("MatchType = %q, want CompanyMatch", r.MatchType)
		}
		if r.SimilarityScore != 100 {
			t.Errorf("SimilarityScore = %v, want 100", r.SimilarityScore)
		}
	}
	// Ascending by product name.
	wantOrder := []string{"Azure DevOps", "Excel", "Windows Server"}
	for i, want := range wantOrder {
		if results[i].Product != want {
			t.Errorf("results[%d].Product = %q, want %q", i, results[i].Product, want)
		}
	}
}

func TestSearchExactProduct(t *testing.T) {
	// Case-different query still matches exactly after normalization; only
	// near-duplicates of the known product name surface.
	results := Search("Azure Devops", testCatalog(), Options{})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].MatchType != ProductMatch {
		t.Errorf("MatchType = %q, want ProductMatch", results[0].MatchType)
	}
	if results[0].Product != "Azure DevOps" {
		t.Errorf("Product = %q, want Azure DevOps", results[0].Product)
	}
	if results[0].SimilarityScore != 100 {
		t.Errorf("SimilarityScore = %v, want 100", results[0].SimilarityScore)
	}
}

func TestSearchClosestMatchCompany(t *testing.T) {
	results := Search("Mikrosoft", testCatalog(), Options{})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.MatchType != ClosestMatch {
			t.Errorf("MatchType = %q, want ClosestMatch", r.MatchType)
		}
		if r.ClosestMatchTerm != "microsoft" {
			t.Errorf("ClosestMatchTerm = %q, want microsoft", r.ClosestMatchTerm)
		}
		if r.OriginalQuery != "Mikrosoft" {
			t.Errorf("OriginalQuery = %q, want Mikrosoft", r.OriginalQuery)
		}
		if r.SimilarityScore != 100 {
			t.Errorf("SimilarityScore = %v, want 100", r.SimilarityScore)
		}
	}
	if results[0].Product != "Azure DevOps" {
		t.Errorf("results[0].Product = %q, want Azure DevOps (ascending)", results[0].Product)
	}
}

func TestSearchClosestMatchProduct(t *testing.T) {
	results := Search("Exell", testCatalog(), Options{})
	if len(results) == 0 {
		t.Fatal("results empty, want closest product match")
	}
	if results[0].MatchType != ClosestMatch {
		t.Errorf("MatchType = %q, want ClosestMatch", results[0].MatchType)
	}
	if results[0].Product != "Excel" {
		t.Errorf("Product = %q, want Excel", results[0].Product)
	}
	if results[0].ClosestMatchTerm != "excel" {
		t.Errorf("ClosestMatchTerm = %q, want excel", results[0].ClosestMatchTerm)
	}
}

func TestSearchCompanyDrillDown(t *testing.T) {
	results := Search("anything", testCatalog(), Options{Mode: ModeCompany, SelectedTerm: "microsoft"})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Product != "Azure DevOps" || results[2].Product != "Windows Server" {
		t.Errorf("drill-down not sorted ascending by product: %q, %q, %q",
			results[0].Product, results[1].Product, results[2].Product)
	}
}

func TestSearchProductDrillDown(t *testing.T) {
	results := Search("anything", testCatalog(), Options{Mode: ModeProduct, SelectedTerm: "Excel"})
	if len(results) == 0 {
		t.Fatal("results empty")
	}
	if results[0].Product != "Excel" {
		t.Errorf("top result = %q, want Excel", results[0].Product)
	}
	for i := 1; i < len(results); i++ {
		if results[i].SimilarityScore > results[i-1].SimilarityScore {
			t.Errorf("results not sorted descending by score at index %d", i)
		}
	}
}

func TestSearchShortQuery(t *testing.T) {
	for _, q := range []string{"a", " ", "", "!!", " . "} {
		if results := Search(q, testCatalog(), Options{}); len(results) != 0 {
			t.Errorf("Search(%q) = %d results, want 0", q, len(results))
		}
	}
}

func TestSearchPlatformFilter(t *testing.T) {
	results := Search("Microsoft", testCatalog(), Options{Platform: "Azure"})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Platform != "Azure" {
			t.Errorf("Platform = %q, want Azure", r.Platform)
		}
	}

	// "All" disables the filter.
	if results := Search("Microsoft", testCatalog(), Options{Platform: "All"}); len(results) != 3 {
		t.Errorf("results with Platform=All = %d, want 3", len(results))
	}
}

func TestSearchLimit(t *testing.T) {
	results := Search("Microsoft", testCatalog(), Options{Limit: 2})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	if results := Search("Microsoft", NewCatalog(), Options{}); len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
	if results := Search("Microsoft", nil, Options{}); len(results) != 0 {
		t.Errorf("results on nil catalog = %d, want 0", len(results))
	}
}

func TestSearchMissingFields(t *testing.T) {
	c := NewCatalog()
	c.Add("k1", Entry{Identifier: "FUID-X:00001-0001-NA"})
	c.Add("k2", Entry{Company: "Solo Co", Product: "Thing"})

	// Entries with empty company/product never panic and never match.
	results := Search("Solo Co", c, Options{})
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Product != "Thing" {
		t.Errorf("Product = %q, want Thing", results[0].Product)
	}
}
