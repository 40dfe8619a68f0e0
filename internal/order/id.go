package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewID returns an order id of the form ORD-YYYYMMDD-HHMMSS-mmm-RRRR for the
// given instant (UTC).
func NewID(at time.Time) string {
	at = at.UTC()

	datePart := at.Format("20060102-150405")
	millis := at.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(at.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD-%s-%03d-%04d", datePart, millis, n.Int64())
}
