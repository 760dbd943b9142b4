// Package resolve decides whether two free-text company names denote the
// same entity. Known debt-buyer families resolve through a canonical alias
// table; everything else falls back to reorder-tolerant fuzzy matching.
package resolve

import (
	"os"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// builtinAliases maps normalized alias names to a canonical parent. The
// table captures legally distinct shells of the same debt buyer; it is the
// first pass before any fuzzy comparison.
var builtinAliases = map[string]string{
	"MIDLAND FUNDING":           "ENCORE CAPITAL GROUP",
	"MIDLAND CREDIT MANAGEMENT": "ENCORE CAPITAL GROUP",
	"MCM":                       "ENCORE CAPITAL GROUP",
	"ENCORE CAPITAL":            "ENCORE CAPITAL GROUP",
	"ENCORE CAPITAL GROUP":      "ENCORE CAPITAL GROUP",
	"ASSET ACCEPTANCE":          "ENCORE CAPITAL GROUP",

	"PORTFOLIO RECOVERY":            "PRA GROUP",
	"PORTFOLIO RECOVERY ASSOCIATES": "PRA GROUP",
	"PRA":                           "PRA GROUP",
	"PRA GROUP":                     "PRA GROUP",

	"LVNV FUNDING":       "SHERMAN FINANCIAL GROUP",
	"LVNV":               "SHERMAN FINANCIAL GROUP",
	"RESURGENT CAPITAL":  "SHERMAN FINANCIAL GROUP",
	"RESURGENT":          "SHERMAN FINANCIAL GROUP",
	"SHERMAN FINANCIAL":  "SHERMAN FINANCIAL GROUP",
	"SHERMAN ORIGINATOR": "SHERMAN FINANCIAL GROUP",

	"CAVALRY PORTFOLIO SERVICES": "CAVALRY SPV",
	"CAVALRY SPV I":              "CAVALRY SPV",
	"CAVALRY SPV":                "CAVALRY SPV",
	"CAVALRY":                    "CAVALRY SPV",

	"JEFFERSON CAPITAL SYSTEMS": "JEFFERSON CAPITAL",
	"JEFFERSON CAPITAL":         "JEFFERSON CAPITAL",

	"ENHANCED RECOVERY":         "ENHANCED RECOVERY COMPANY",
	"ENHANCED RECOVERY COMPANY": "ENHANCED RECOVERY COMPANY",
	"ERC":                       "ENHANCED RECOVERY COMPANY",

	"IC SYSTEM":  "IC SYSTEM",
	"IC SYSTEMS": "IC SYSTEM",

	"CONVERGENT OUTSOURCING": "CONVERGENT",
	"CONVERGENT":             "CONVERGENT",

	"RADIUS GLOBAL SOLUTIONS": "RADIUS GLOBAL",
	"RADIUS GLOBAL":           "RADIUS GLOBAL",

	"TRANSWORLD SYSTEMS": "TRANSWORLD SYSTEMS",
	"TSI":                "TRANSWORLD SYSTEMS",

	"NATIONAL CREDIT SYSTEMS":    "NATIONAL CREDIT SYSTEMS",
	"PHOENIX FINANCIAL SERVICES": "PHOENIX FINANCIAL",
	"PHOENIX FINANCIAL":          "PHOENIX FINANCIAL",
	"CBE GROUP":                  "CBE GROUP",
	"THE CBE GROUP":              "CBE GROUP",
}

// Resolver resolves entity identity via the alias table plus fuzzy matching.
type Resolver struct {
	aliases   map[string]string
	threshold float64
	params    *levenshtein.Params
}

// New creates a Resolver with the built-in alias table. threshold is the
// 0-100 similarity cutoff for the fuzzy fallback.
func New(threshold float64) *Resolver {
	return &Resolver{
		aliases:   builtinAliases,
		threshold: threshold,
		params:    levenshtein.NewParams(),
	}
}

// NewWithAliases creates a Resolver whose alias table extends the built-in
// one with extra (already canonical-keyed) entries.
func NewWithAliases(threshold float64, extra map[string]string) *Resolver {
	aliases := make(map[string]string, len(builtinAliases)+len(extra))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[Normalize(k)] = Normalize(v)
	}
	return &Resolver{
		aliases:   aliases,
		threshold: threshold,
		params:    levenshtein.NewParams(),
	}
}

// LoadAliasFile reads a YAML map of alias -> canonical parent.
func LoadAliasFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "resolve: read alias file")
	}
	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, eris.Wrap(err, "resolve: unmarshal alias file")
	}
	return extra, nil
}

// Canonical returns the canonical identity for name: the alias table's
// parent on a hit, otherwise the normalized form.
func (r *Resolver) Canonical(name string) string {
	n := Normalize(name)
	if parent, ok := r.aliases[n]; ok {
		return parent
	}
	return n
}

// SameEntity reports whether a and b denote the same company. Alias-table
// resolution wins over fuzzy comparison, so known shells of one debt buyer
// match exactly and never depend on string distance.
func (r *Resolver) SameEntity(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	ca, aOK := r.aliases[na]
	cb, bOK := r.aliases[nb]
	if aOK && bOK {
		return ca == cb
	}
	if na == nb {
		return true
	}
	return r.Similarity(a, b) >= r.threshold
}

// Similarity scores two names on a 0-100 scale, tolerant to word reordering
// and OCR noise. The score is the better of an edit-distance ratio over
// sorted token strings and a scaled token-overlap (Jaccard) ratio.
func (r *Resolver) Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	ta, tb := tokens(na), tokens(nb)
	edit := levenshtein.Similarity(sortedTokenString(ta), sortedTokenString(tb), r.params) * 100
	jac := jaccard(ta, tb) * 100

	if jac > edit {
		return jac
	}
	return edit
}

// jaccard computes word-set overlap, the same measure the borrower-name
// matcher uses: |A∩B| / |A∪B|.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a)
	for w := range b {
		if !a[w] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// AccountKey normalizes an account number for identity comparison: strips
// separators and masking characters, keeping digits and letters only.
func AccountKey(accountNumber string) string {
	var sb strings.Builder
	for _, c := range strings.ToUpper(strings.TrimSpace(accountNumber)) {
		if (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
