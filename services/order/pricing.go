// File: services/order/pricing.go
package order

import (
	"fmt"
	"math"

	"staybook/models"
)

// amountTolerance is the maximum accepted drift between a client-supplied
// amount and the recomputed one, in currency units.
const amountTolerance = 0.01

func amountsMatch(claimed, computed float64) bool {
	return math.Abs(claimed-computed) <= amountTolerance
}

// reprice recomputes every line total and the order total from the raw price
// and tax fields, rejecting any client-supplied figure that drifts beyond the
// tolerance. Tamper detection, not rounding hygiene.
func reprice(req models.CreateOrderRequest) (float64, error) {
	var total float64
	for i, sel := range req.RoomSelections {
		lineTotal := sel.Price + sel.Tax
		if !amountsMatch(sel.TotalPrice, lineTotal) {
			return 0, fmt.Errorf("line %d total %.2f does not match price %.2f + tax %.2f: %w",
				i, sel.TotalPrice, sel.Price, sel.Tax, models.ErrAmountMismatch)
		}
		total += lineTotal
	}
	if !amountsMatch(req.Amount, total) {
		return 0, fmt.Errorf("order amount %.2f does not match line total %.2f: %w",
			req.Amount, total, models.ErrAmountMismatch)
	}
	return total, nil
}
