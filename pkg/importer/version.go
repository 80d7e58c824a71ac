package importer

import "regexp"

// NoVersionFound is returned by ExtractVersion when a product name carries no
// recognizable version, year, or level number.
const NoVersionFound = "NO VERSION FOUND"

var (
	// "v22.1", "V5" — explicit version prefix, capture the number part.
	versionPrefixRe = regexp.MustCompile(`[vV](\d+(?:\.\d+)*)`)
	// "22.1", "3.0.4" — standalone dotted number.
	dottedNumberRe = regexp.MustCompile(`\d+(?:\.\d+)+`)
	// "2019", "server2022" — a plausible year, possibly glued to a word.
	yearRe = regexp.MustCompile(`(?:19|20)\d{2}`)
)

// ExtractVersion pulls a version, year, or level number out of a product name.
// Rules are tried in order of specificity:
//
//	"intellicus bi server v22.1 5 users"  -> "22.1"
//	"dockermaventerraform on server2022"  -> "2022"
//	"siemonster v5 training non mssps"    -> "5"
//	"windows server 2019 datacenter"      -> "2019"
//
// Names with no match return NoVersionFound; callers decide how to encode that
// in the identifier.
func ExtractVersion(productName string) string {
	if m := versionPrefixRe.FindStringSubmatch(productName); m != nil {
		return m[1]
	}
	if m := dottedNumberRe.FindString(productName); m != "" {
		return m
	}
	if m := yearRe.FindString(productName); m != "" {
		return m
	}
	return NoVersionFound
}
