package fuid

import (
	"sort"
	"strings"
)

// Mode is an optional disambiguation hint supplied with a query, used when
// the caller has already picked a company or product from a suggestion list.
type Mode string

const (
	ModeNone    Mode = ""
	ModeCompany Mode = "company"
	ModeProduct Mode = "product"
)

// productScoreFloor is the similarity a product must exceed once an exact
// product name is known to exist: only near-duplicates of that name surface.
const productScoreFloor = 80

// DefaultLimit caps the number of results returned from ranked stages.
const DefaultLimit = 100

// Options tune a single search call.
type Options struct {
	// Mode and SelectedTerm trigger the drill-down stage.
	Mode         Mode
	SelectedTerm string
	// Platform filters results by entry platform. Empty or "All" disables it.
	Platform string
	// Limit caps ranked result lists. Zero means DefaultLimit.
	Limit int
}

// Search runs the multi-stage lookup over a catalog snapshot. The catalog is
// never mutated, so concurrent calls against the same snapshot are safe.
//
// Stages, first match terminal:
//  1. identifier lookup for queries starting with "FUID"
//  2. company/product drill-down when Mode and SelectedTerm are set
//  3. free text: exact company, then exact product, then closest-match
//     fallback over the union of all company and product names
func Search(query string, catalog *Catalog, opts Options) []Match {
	results := []Match{}
	if catalog == nil {
		return results
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	// Stage 1: identifier match. Terminal even when nothing matches.
	trimmed := strings.TrimSpace(query)
	if strings.HasPrefix(strings.ToUpper(trimmed), "FUID") {
		catalog.Each(func(_ string, e Entry) bool {
			if strings.EqualFold(e.Identifier, trimmed) {
				results = append(results, Match{Entry: e, MatchType: IdentifierMatch, SimilarityScore: 100})
			}
			return true
		})
		return results
	}

	// Stage 2: drill-down on a pre-selected term.
	if opts.Mode == ModeCompany && opts.SelectedTerm != "" {
		catalog.Each(func(_ string, e Entry) bool {
			if strings.EqualFold(e.Company, opts.SelectedTerm) && platformAllowed(e, opts.Platform) {
				results = append(results, Match{Entry: e, MatchType: CompanyMatch, SimilarityScore: 100})
			}
			return true
		})
		sortByProduct(results)
		return truncate(results, limit)
	}
	if opts.Mode == ModeProduct && opts.SelectedTerm != "" {
		catalog.Each(func(_ string, e Entry) bool {
			if e.Product == "" || !platformAllowed(e, opts.Platform) {
				return true
			}
			score := Similarity(opts.SelectedTerm, e.Product)
			if score > 0 {
				results = append(results, Match{Entry: e, MatchType: ProductMatch, SimilarityScore: score})
			}
			return true
		})
		sortByScore(results)
		return truncate(results, limit)
	}

	// Stage 3: free text.
	normalized := Normalize(query)
	if len([]rune(normalized)) < 2 {
		return results
	}

	var exactCompany, exactProduct string
	catalog.Each(func(_ string, e Entry) bool {
		if exactCompany == "" && e.Company != "" && Normalize(e.Company) == normalized {
			exactCompany = e.Company
		}
		if exactProduct == "" && e.Product != "" && Normalize(e.Product) == normalized {
			exactProduct = e.Product
		}
		return exactCompany == "" || exactProduct == ""
	})

	switch {
	case exactCompany != "":
		// Company drill-down on the raw matched value, preserving original
		// casing in the collection pass.
		catalog.Each(func(_ string, e Entry) bool {
			if strings.EqualFold(e.Company, exactCompany) && platformAllowed(e, opts.Platform) {
				results = append(results, Match{Entry: e, MatchType: CompanyMatch, SimilarityScore: 100})
			}
			return true
		})
		sortByProduct(results)
		return truncate(results, limit)

	case exactProduct != "":
		catalog.Each(func(_ string, e Entry) bool {
			if e.Product == "" || !platformAllowed(e, opts.Platform) {
				return true
			}
			score := Similarity(normalized, strings.ToLower(e.Product))
			if score > productScoreFloor {
				results = append(results, Match{Entry: e, MatchType: ProductMatch, SimilarityScore: score})
			}
			return true
		})
		sortByScore(results)
		return truncate(results, limit)
	}

	return closestMatchResults(query, normalized, catalog, opts.Platform, limit)
}

// closestMatchResults handles the no-exact-match fallback: pick the single
// known company or product name most similar to the query, then return the
// rows for that term tagged ClosestMatch.
func closestMatchResults(query, normalized string, catalog *Catalog, platform string, limit int) []Match {
	results := []Match{}

	// Candidate terms in first-seen order; ties on score keep the earlier
	// term, which makes the fallback deterministic for a given snapshot.
	seen := make(map[string]bool)
	var terms []string
	catalog.Each(func(_ string, e Entry) bool {
		for _, raw := range []string{e.Company, e.Product} {
			if raw == "" {
				continue
			}
			t := strings.ToLower(raw)
			if !seen[t] {
				seen[t] = true
				terms = append(terms, t)
			}
		}
		return true
	})

	var closest string
	bestScore := -1.0
	for _, t := range terms {
		if score := Similarity(normalized, t); score > bestScore {
			bestScore = score
			closest = t
		}
	}
	if closest == "" {
		return results
	}

	var isCompany, isProduct bool
	catalog.Each(func(_ string, e Entry) bool {
		if Normalize(e.Company) == closest {
			isCompany = true
		}
		if Normalize(e.Product) == closest {
			isProduct = true
		}
		return !(isCompany && isProduct)
	})

	switch {
	case isCompany:
		catalog.Each(func(_ string, e Entry) bool {
			if Normalize(e.Company) == closest && platformAllowed(e, platform) {
				results = append(results, Match{
					Entry:            e,
					MatchType:        ClosestMatch,
					SimilarityScore:  100,
					ClosestMatchTerm: closest,
					OriginalQuery:    query,
				})
			}
			return true
		})
		sortByProduct(results)
		return truncate(results, limit)

	case isProduct:
		catalog.Each(func(_ string, e Entry) bool {
			if e.Product == "" || !platformAllowed(e, platform) {
				return true
			}
			score := Similarity(closest, e.Product)
			if score > productScoreFloor {
				results = append(results, Match{
					Entry:            e,
					MatchType:        ClosestMatch,
					SimilarityScore:  score,
					ClosestMatchTerm: closest,
					OriginalQuery:    query,
				})
			}
			return true
		})
		sortByScore(results)
		return truncate(results, limit)
	}

	// The closest term came from the company/product sets, so reaching here
	// means the term normalizes differently from every field; nothing to show.
	return results
}

func platformAllowed(e Entry, platform string) bool {
	if platform == "" || strings.EqualFold(platform, "All") {
		return true
	}
	return strings.EqualFold(e.Platform, platform)
}

func sortByProduct(results []Match) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Product < results[j].Product
	})
}

func sortByScore(results []Match) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
}

func truncate(results []Match, limit int) []Match {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
