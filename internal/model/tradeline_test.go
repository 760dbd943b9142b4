package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain", "1250.50", 1250.50},
		{"dollar sign", "$1,250.50", 1250.50},
		{"spaces", " $ 900 ", 900},
		{"usd suffix", "500 USD", 500},
		{"parenthesized negative", "($250.00)", -250},
		{"garbage", "twelve dollars", 0},
		{"empty", "", 0},
		{"sentinel", "N/A", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := NewTradeline(map[string]string{KeyBalance: tt.raw}, 0)
			assert.InDelta(t, tt.want, tl.Money(KeyBalance), 0.001)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"valid iso", "2015-01-01", true},
		{"slash format rejected", "01/01/2015", false},
		{"partial", "2015-01", false},
		{"textual", "Jan 1 2015", false},
		{"empty", "", false},
		{"dash sentinel", "--", false},
		{"unknown sentinel", "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := NewTradeline(map[string]string{KeyDOFD: tt.raw}, 0)
			d, ok := tl.Date(KeyDOFD)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), d)
			}
		})
	}
}

func TestFieldNormalization(t *testing.T) {
	tl := NewTradeline(map[string]string{" Account_Status ": " Paid "}, 3)
	assert.Equal(t, "Paid", tl.Field("account_status"))
	assert.True(t, tl.Has("account_status"))
	assert.False(t, tl.Has("balance"))
	assert.Equal(t, 3, tl.Index)
}

func TestIsCollectionAndMedical(t *testing.T) {
	coll := NewTradeline(map[string]string{KeyAccountType: "Collection Account"}, 0)
	assert.True(t, coll.IsCollection())

	med := NewTradeline(map[string]string{KeyOriginalCreditor: "Mercy Hospital Billing"}, 0)
	assert.True(t, med.IsMedical())

	card := NewTradeline(map[string]string{KeyAccountType: "Credit Card"}, 0)
	assert.False(t, card.IsCollection())
	assert.False(t, card.IsMedical())
}

func TestSnapshotSkipsAbsent(t *testing.T) {
	tl := NewTradeline(map[string]string{
		KeyBalance: "$500",
		KeyDOFD:    "N/A",
	}, 0)
	snap := tl.Snapshot(KeyBalance, KeyDOFD, KeyDateOpened)
	require.Len(t, snap, 1)
	assert.Equal(t, "$500", snap[KeyBalance])
}

func TestFurnisherFallback(t *testing.T) {
	tl := NewTradeline(map[string]string{KeyCreditorName: "LVNV Funding"}, 0)
	assert.Equal(t, "LVNV Funding", tl.FurnisherName())

	tl2 := NewTradeline(map[string]string{
		KeyFurnisher:    "Resurgent Capital",
		KeyCreditorName: "LVNV Funding",
	}, 0)
	assert.Equal(t, "Resurgent Capital", tl2.FurnisherName())
}
