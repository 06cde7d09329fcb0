package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingReference generates a human-readable booking reference such as
// "BK-20260829-3FA81C". Uniqueness comes from the random suffix; the date
// part exists for front-desk readability.
func NewBookingReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"), suffix)
}
