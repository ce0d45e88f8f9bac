package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// GenerateTrackingCode derives a short, shareable tracking code from the
// affiliate's email, the destination URL and the issuance timestamp. The
// digest is truncated, so the caller must treat a uniqueness violation from
// storage as a collision and re-derive with a fresh salt.
func GenerateTrackingCode(email, originalURL string, issuedAt time.Time, salt string, length int) string {
	data := fmt.Sprintf("%s%s%d%s", email, originalURL, issuedAt.UnixNano(), salt)
	hash := sha256.Sum256([]byte(data))
	code := strings.ToUpper(hex.EncodeToString(hash[:]))
	if length <= 0 || length > len(code) {
		length = DefaultTrackingCodeLength
	}
	return code[:length]
}

// DefaultTrackingCodeLength is the truncation length for tracking codes.
const DefaultTrackingCodeLength = 8

// Money is carried as integer minor units (cents) everywhere inside the
// engine. Decimal strings exist only at the API edge.

// ParseAmount converts a decimal money string (e.g. "250.00") to cents.
func ParseAmount(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", value)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than two decimal places", value)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders cents as a two-decimal string for display.
func FormatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// ParsePercent converts a percentage string (e.g. "10" or "7.5") to basis
// points. Rates are stored fixed-point to keep commission math drift-free.
func ParsePercent(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", value, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return 0, fmt.Errorf("percentage must be between 0 and 100: %s", value)
	}
	bps := d.Mul(decimal.NewFromInt(100))
	if !bps.Equal(bps.Truncate(0)) {
		return 0, fmt.Errorf("percentage %q is finer than 0.01%%", value)
	}
	return bps.IntPart(), nil
}

// FormatPercent renders basis points as a percentage string.
func FormatPercent(bps int64) string {
	return decimal.NewFromInt(bps).Div(decimal.NewFromInt(100)).String()
}

// ComputeCommission calculates the commission in cents for an order value in
// cents at a rate in basis points, rounding half up at the cent boundary.
func ComputeCommission(orderCents, rateBps int64) int64 {
	amount := decimal.NewFromInt(orderCents).
		Mul(decimal.NewFromInt(rateBps)).
		Div(decimal.NewFromInt(10000))
	return amount.Round(0).IntPart()
}
