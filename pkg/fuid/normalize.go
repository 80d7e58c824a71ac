package fuid

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// scrub decomposes (NFD) and removes every rune that is not a letter, digit,
// underscore, whitespace, or dot. Combining marks fall out with the rest, so
// accented letters fold to their base form (Élodie -> elodie after lowercasing).
var scrub = transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || unicode.IsSpace(r))
})))

// Normalize canonicalizes free text for matching: lowercase, Unicode NFD
// decomposition, punctuation stripped (dots kept for version strings),
// whitespace collapsed. Idempotent.
func Normalize(text string) string {
	result, _, _ := transform.String(scrub, strings.ToLower(text))
	return strings.Join(strings.Fields(result), " ")
}

// GenerateCompanyCode derives a short company code: the first five
// alphanumeric characters of the name, uppercased, plus the zero-padded
// counter. Names with no usable characters get an UNKNOWN code.
func GenerateCompanyCode(name string, counter int) string {
	if name == "" {
		return fmt.Sprintf("UNKNOWN%05d", counter)
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, name)

	joined := strings.Join(strings.Fields(cleaned), "")
	if joined == "" {
		return fmt.Sprintf("UNKNOWN%05d", counter)
	}
	if len(joined) > 5 {
		joined = joined[:5]
	}
	return fmt.Sprintf("%s:%05d", strings.ToUpper(joined), counter)
}

// GenerateProductCode derives a product code: the counter zero-padded to
// four digits.
func GenerateProductCode(counter int) string {
	return fmt.Sprintf("%04d", counter)
}

// GenerateVersionCode passes the version through unchanged. It exists as a
// named seam for future formatting rules.
func GenerateVersionCode(version string) string {
	return version
}

// BuildIdentifier assembles the FUID string. A missing or unextractable
// version becomes "NA"; otherwise whitespace is stripped from it.
func BuildIdentifier(companyCode, productCode, version string) string {
	if version == "" || strings.EqualFold(version, "NO VERSION FOUND") {
		version = "NA"
	} else {
		version = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, version)
	}
	return "FUID-" + companyCode + "-" + productCode + "-" + version
}

// FormatVersionForIdentifier renders a dotted version for display in
// generated identifiers: single-digit segments are zero-padded and segments
// are joined with dashes ("22.7" -> "22-07", "5" -> "05", "2022" -> "2022").
func FormatVersionForIdentifier(version string) string {
	if version == "" || strings.EqualFold(version, "NO VERSION FOUND") {
		return "00"
	}
	segments := strings.Split(version, ".")
	for i, seg := range segments {
		if len(seg) == 1 && seg[0] >= '0' && seg[0] <= '9' {
			segments[i] = "0" + seg
		}
	}
	return strings.Join(segments, "-")
}
