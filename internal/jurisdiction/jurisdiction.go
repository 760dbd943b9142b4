// Package jurisdiction holds per-region statute-of-limitations and interest
// cap reference data. The table is built once at process start and shared
// read-only across concurrent workers.
package jurisdiction

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DebtClass selects which SOL clock and interest cap applies.
type DebtClass string

const (
	ClassGeneral  DebtClass = "general"
	ClassMedical  DebtClass = "medical"
	ClassJudgment DebtClass = "judgment"
)

// Profile is the read-only reference record for one region.
type Profile struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`

	// SOLYears maps debt class to the limitations period in years.
	SOLYears map[DebtClass]int `yaml:"sol_years"`

	// Interest caps, percent per annum.
	UsuryCapPct    float64 `yaml:"usury_cap_pct"`
	MedicalCapPct  float64 `yaml:"medical_cap_pct"`
	JudgmentCapPct float64 `yaml:"judgment_cap_pct"`

	TollingCitation string `yaml:"tolling_citation"`
}

// SOLFor returns the limitations period for class, falling back to the
// general period when the class has no dedicated entry.
func (p *Profile) SOLFor(class DebtClass) int {
	if y, ok := p.SOLYears[class]; ok && y > 0 {
		return y
	}
	return p.SOLYears[ClassGeneral]
}

// CapFor returns the applicable interest cap for class.
func (p *Profile) CapFor(class DebtClass) float64 {
	switch class {
	case ClassMedical:
		if p.MedicalCapPct > 0 {
			return p.MedicalCapPct
		}
	case ClassJudgment:
		if p.JudgmentCapPct > 0 {
			return p.JudgmentCapPct
		}
	}
	return p.UsuryCapPct
}

// Table is an immutable jurisdiction lookup.
type Table struct {
	byCode map[string]*Profile
}

// NewTable indexes the given profiles by upper-cased code.
func NewTable(profiles []Profile) *Table {
	t := &Table{byCode: make(map[string]*Profile, len(profiles))}
	for i := range profiles {
		p := &profiles[i]
		t.byCode[strings.ToUpper(strings.TrimSpace(p.Code))] = p
	}
	return t
}

// Builtin returns the table of built-in US state profiles.
func Builtin() *Table {
	return NewTable(builtinProfiles())
}

// Lookup returns the profile for code (case-insensitive). A miss disables
// jurisdiction-dependent rules; it is never an error.
func (t *Table) Lookup(code string) (*Profile, bool) {
	p, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Codes returns all known jurisdiction codes, unsorted.
func (t *Table) Codes() []string {
	out := make([]string, 0, len(t.byCode))
	for c := range t.byCode {
		out = append(out, c)
	}
	return out
}

// LoadFile reads a YAML list of profiles. Entries replace built-in profiles
// with the same code.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "jurisdiction: read profiles file")
	}

	var overrides []Profile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "jurisdiction: unmarshal profiles file")
	}

	merged := builtinProfiles()
	byCode := make(map[string]int, len(merged))
	for i := range merged {
		byCode[merged[i].Code] = i
	}
	for _, o := range overrides {
		code := strings.ToUpper(strings.TrimSpace(o.Code))
		o.Code = code
		if i, ok := byCode[code]; ok {
			merged[i] = o
		} else {
			merged = append(merged, o)
		}
	}

	return NewTable(merged), nil
}

// SOLCheck reports whether the limitations period for class has run as of
// now, given the date of first delinquency. Elapsed time is measured in
// fractional years.
func SOLCheck(p *Profile, class DebtClass, dofd, now time.Time) (expired bool, limitYears int, elapsedYears float64) {
	limitYears = p.SOLFor(class)
	elapsedYears = now.Sub(dofd).Hours() / 24 / 365.25
	if limitYears <= 0 {
		return false, limitYears, elapsedYears
	}
	return elapsedYears > float64(limitYears), limitYears, elapsedYears
}
