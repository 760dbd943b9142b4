// Package model defines the immutable input and output types of the audit
// engine: tradelines, flags, and risk profiles.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Well-known tradeline field keys produced by the upstream parser.
const (
	KeyCreditorName     = "creditor_name"
	KeyFurnisher        = "furnisher"
	KeyOriginalCreditor = "original_creditor"
	KeyAccountNumber    = "account_number"
	KeyAccountType      = "account_type"
	KeyAccountStatus    = "account_status"
	KeyStatusCode       = "account_status_code"
	KeyPaymentHistory   = "payment_history"
	KeyRemarks          = "remarks"

	KeyBalance         = "balance"
	KeyOriginalBalance = "original_balance"

	KeyDateOpened   = "date_opened"
	KeyDOFD         = "dofd"
	KeyChargeOff    = "charge_off_date"
	KeyLastPayment  = "last_payment_date"
	KeyLastActivity = "last_activity_date"
	KeyRemovalDate  = "estimated_removal_date"
	KeyDateReported = "date_reported"
	KeyLastUpdated  = "last_updated"
)

// DateKeys lists every field that must hold an ISO calendar date when present.
var DateKeys = []string{
	KeyDateOpened,
	KeyDOFD,
	KeyChargeOff,
	KeyLastPayment,
	KeyLastActivity,
	KeyRemovalDate,
	KeyDateReported,
	KeyLastUpdated,
}

// absentSentinels are upstream markers for "no value".
var absentSentinels = map[string]bool{
	"":        true,
	"-":       true,
	"--":      true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"unknown": true,
}

// Tradeline is an immutable snapshot of one reported account. The attribute
// bag comes from the external field parser; values may be missing or
// malformed, so callers go through the fail-soft accessors.
type Tradeline struct {
	fields map[string]string

	// Index is the position of this tradeline in the analyzed set.
	Index int
	// Source labels the reporting source for cross-source analysis.
	Source string
}

// NewTradeline copies the attribute bag into an immutable Tradeline.
func NewTradeline(fields map[string]string, index int) Tradeline {
	m := make(map[string]string, len(fields))
	for k, v := range fields {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return Tradeline{fields: m, Index: index}
}

// Field returns the trimmed raw value for key, or "" when absent.
func (t Tradeline) Field(key string) string {
	v := strings.TrimSpace(t.fields[key])
	if absentSentinels[strings.ToLower(v)] {
		return ""
	}
	return v
}

// Has reports whether key carries a non-sentinel value.
func (t Tradeline) Has(key string) bool {
	return t.Field(key) != ""
}

// moneyReplacer strips currency symbols and separators before parsing.
var moneyReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "USD", "", "usd", "")

// Money parses a currency amount, tolerating symbols and thousand
// separators. Unparsable or absent input yields 0, never an error.
func (t Tradeline) Money(key string) float64 {
	raw := t.Field(key)
	if raw == "" {
		return 0
	}
	cleaned := moneyReplacer.Replace(raw)
	neg := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		neg = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// Date parses an ISO calendar date (YYYY-MM-DD). The second return is false
// for absent, sentinel, or malformed values; rules decline on false rather
// than guessing.
func (t Tradeline) Date(key string) (time.Time, bool) {
	raw := t.Field(key)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsCollection reports whether the account type or status marks this as a
// collection account.
func (t Tradeline) IsCollection() bool {
	typ := strings.ToLower(t.Field(KeyAccountType))
	status := strings.ToLower(t.Field(KeyAccountStatus))
	return strings.Contains(typ, "collection") || strings.Contains(status, "collection")
}

// IsMedical reports whether the debt appears to be medical, used to select
// the medical interest cap and SOL class.
func (t Tradeline) IsMedical() bool {
	for _, key := range []string{KeyAccountType, KeyOriginalCreditor, KeyCreditorName} {
		v := strings.ToLower(t.Field(key))
		if strings.Contains(v, "medical") || strings.Contains(v, "hospital") ||
			strings.Contains(v, "health") || strings.Contains(v, "clinic") {
			return true
		}
	}
	return false
}

// FurnisherName returns the reporting entity, falling back to the creditor
// name when the parser produced no explicit furnisher field.
func (t Tradeline) FurnisherName() string {
	if v := t.Field(KeyFurnisher); v != "" {
		return v
	}
	return t.Field(KeyCreditorName)
}

// Snapshot copies the named fields into an evidence map, skipping absent ones.
func (t Tradeline) Snapshot(keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := t.Field(k); v != "" {
			out[k] = v
		}
	}
	return out
}
