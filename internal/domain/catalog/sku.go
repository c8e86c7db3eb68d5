package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SKUPrefix is the brand segment every SKU starts with
const SKUPrefix = "TB"

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)

	nonSlugChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// NormalizeSegment uppercases s and removes all whitespace
func NormalizeSegment(s string) string {
	return strings.Join(strings.Fields(upper.String(s)), "")
}

// ExpectedSKU builds TB-<COLLECTION>-<DESIGN>-<COLOR>
func ExpectedSKU(collection, design, color string) string {
	return strings.Join([]string{
		SKUPrefix,
		NormalizeSegment(collection),
		NormalizeSegment(design),
		NormalizeSegment(color),
	}, "-")
}

// ValidSKU reports whether sku matches the deterministic format for the
// given collection, design and color
func ValidSKU(sku, collection, design, color string) bool {
	parts := strings.Split(sku, "-")
	if len(parts) != 4 {
		return false
	}
	return parts[0] == SKUPrefix &&
		parts[1] == NormalizeSegment(collection) &&
		parts[2] == NormalizeSegment(design) &&
		parts[3] == NormalizeSegment(color)
}

// NormalizeSKUKey is the comparison key used when reconciling variants
func NormalizeSKUKey(sku string) string {
	return strings.TrimSpace(sku)
}

// Slugify lowercases s, turns spaces into hyphens and drops every
// character outside [A-Za-z0-9_-]
func Slugify(s string) string {
	slug := strings.ReplaceAll(lower.String(s), " ", "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}
