package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairclaim/tradeline-audit/internal/jurisdiction"
	"github.com/fairclaim/tradeline-audit/internal/model"
)

func testCtxIn(code string, fields map[string]string) *Context {
	ctx := testCtx(fields)
	if code != "" {
		p, ok := jurisdiction.Builtin().Lookup(code)
		if !ok {
			panic("unknown jurisdiction in test: " + code)
		}
		ctx.Jurisdiction = p
	}
	return ctx
}

func TestBalanceGrowth(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		wantFire bool
	}{
		{
			"well past the ratio",
			map[string]string{
				model.KeyAccountType:     "Collection",
				model.KeyOriginalBalance: "1000",
				model.KeyBalance:         "1600",
			},
			true,
		},
		{
			"exactly at the ratio",
			map[string]string{
				model.KeyAccountType:     "Collection",
				model.KeyOriginalBalance: "1000",
				model.KeyBalance:         "1500",
			},
			false,
		},
		{
			"not a collection account",
			map[string]string{
				model.KeyAccountType:     "Credit Card",
				model.KeyOriginalBalance: "1000",
				model.KeyBalance:         "2000",
			},
			false,
		},
		{
			"no original balance",
			map[string]string{
				model.KeyAccountType: "Collection",
				model.KeyBalance:     "2000",
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := evalBalanceGrowth(testCtx(tt.fields))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFire, f != nil)
		})
	}
}

func TestGrowthAfterTransfer(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		wantFire bool
	}{
		{
			"any growth with explicit transfer marker",
			map[string]string{
				model.KeyAccountStatus:   "Sold to collector",
				model.KeyOriginalBalance: "500",
				model.KeyBalance:         "600",
			},
			true,
		},
		{
			"transfer marker in remarks",
			map[string]string{
				model.KeyRemarks:         "Transferred to LVNV",
				model.KeyOriginalBalance: "500",
				model.KeyBalance:         "501",
			},
			true,
		},
		{
			"collection with modest growth defers to the ratio rule",
			map[string]string{
				model.KeyAccountType:      "Collection",
				model.KeyOriginalCreditor: "Chase Bank",
				model.KeyOriginalBalance:  "1000",
				model.KeyBalance:          "1200",
			},
			false,
		},
		{
			"collection past the ratio",
			map[string]string{
				model.KeyAccountType:      "Collection",
				model.KeyOriginalCreditor: "Chase Bank",
				model.KeyOriginalBalance:  "1000",
				model.KeyBalance:          "1600",
			},
			true,
		},
		{
			"transfer marker but no growth",
			map[string]string{
				model.KeyAccountStatus:   "Sold",
				model.KeyOriginalBalance: "500",
				model.KeyBalance:         "500",
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := evalGrowthAfterTransfer(testCtx(tt.fields))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFire, f != nil)
		})
	}
}

func TestInterestOverCap(t *testing.T) {
	// NY usury cap is 16%; with the 2% fee buffer the implied annualized
	// rate must exceed 18% to fire.
	base := func(balance string) map[string]string {
		return map[string]string{
			model.KeyOriginalBalance: "1000",
			model.KeyBalance:         balance,
			model.KeyDOFD:            "2024-08-01",
		}
	}

	f, err := evalInterestOverCap(testCtxIn("NY", base("1400")))
	require.NoError(t, err)
	require.NotNil(t, f, "20% per year over two years should exceed the cap")
	assert.Equal(t, "20.01", f.Evidence["implied_rate_pct"])
	assert.Equal(t, "16.00", f.Evidence["jurisdiction_cap_pct"])

	f, err = evalInterestOverCap(testCtxIn("NY", base("1300")))
	require.NoError(t, err)
	assert.Nil(t, f, "15% per year sits under the cap")

	f, err = evalInterestOverCap(testCtx(base("1400")))
	require.NoError(t, err)
	assert.Nil(t, f, "declines without a jurisdiction profile")

	recent := base("1400")
	recent[model.KeyDOFD] = "2026-06-01"
	f, err = evalInterestOverCap(testCtxIn("NY", recent))
	require.NoError(t, err)
	assert.Nil(t, f, "declines when the window is under half a year")
}
