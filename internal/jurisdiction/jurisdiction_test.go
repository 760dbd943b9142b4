package jurisdiction

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestLookupCaseInsensitive(t *testing.T) {
	table := Builtin()

	p, ok := table.Lookup("tx")
	require.True(t, ok)
	assert.Equal(t, "TX", p.Code)

	_, ok = table.Lookup("ZZ")
	assert.False(t, ok)
}

func TestSOLCheck(t *testing.T) {
	now := date(2026, 8, 29)
	table := Builtin()

	tests := []struct {
		name        string
		code        string
		class       DebtClass
		dofd        time.Time
		wantExpired bool
		wantLimit   int
	}{
		{"4y sol, 9y elapsed", "PA", ClassGeneral, now.AddDate(-9, 0, 0), true, 4},
		{"6y sol, 1y elapsed", "OH", ClassGeneral, now.AddDate(-1, 0, 0), false, 6},
		{"exactly at limit not expired", "TX", ClassGeneral, now.AddDate(-4, 0, 1), false, 4},
		{"medical class has own period", "NY", ClassMedical, now.AddDate(-4, 0, 0), true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := table.Lookup(tt.code)
			require.True(t, ok)

			expired, limit, elapsed := SOLCheck(p, tt.class, tt.dofd, now)
			assert.Equal(t, tt.wantExpired, expired)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Greater(t, elapsed, 0.0)
		})
	}
}

func TestCapFor(t *testing.T) {
	table := Builtin()
	p, ok := table.Lookup("NY")
	require.True(t, ok)

	assert.InDelta(t, 16, p.CapFor(ClassGeneral), 0.001)
	assert.InDelta(t, 9, p.CapFor(ClassMedical), 0.001)
}

func TestLoadFileOverridesAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
- code: TX
  name: Texas (override)
  sol_years:
    general: 3
  usury_cap_pct: 12
- code: PR
  name: Puerto Rico
  sol_years:
    general: 15
  usury_cap_pct: 9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)

	tx, ok := table.Lookup("TX")
	require.True(t, ok)
	assert.Equal(t, 3, tx.SOLFor(ClassGeneral))

	pr, ok := table.Lookup("PR")
	require.True(t, ok)
	assert.Equal(t, 15, pr.SOLFor(ClassGeneral))

	// Untouched entries survive.
	_, ok = table.Lookup("CA")
	assert.True(t, ok)
}

func TestSOLForFallsBackToGeneral(t *testing.T) {
	p := &Profile{SOLYears: map[DebtClass]int{ClassGeneral: 5}}
	assert.Equal(t, 5, p.SOLFor(ClassMedical))
}
