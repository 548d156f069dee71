package transaction

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Checksum derives the dedup key for a normalized row. The digest covers the
// account, the calendar date, the trimmed lowercased description and the
// amount fixed to two decimals, so the same bank row hashes identically
// across uploads while rows differing in any field do not collide.
func Checksum(accountID string, date time.Time, description string, amount decimal.Decimal) string {
	payload := strings.Join([]string{
		accountID,
		date.Format("2006-01-02"),
		strings.ToLower(strings.TrimSpace(description)),
		amount.StringFixed(2),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
