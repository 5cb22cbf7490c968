package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// NewOrderID builds a human-readable order reference such as "FS-839214-4821":
// the given prefix, the trailing six digits of the current epoch-millis, and a
// four-digit random suffix. Uniqueness is best-effort; the payments table
// enforces real uniqueness on payment_id, not on the order reference.
func NewOrderID(prefix string) string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return fmt.Sprintf("%s-%s-%d", prefix, ms[len(ms)-6:], 1000+rand.Intn(9000))
}
