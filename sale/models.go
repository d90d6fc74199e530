package sale

import "github.com/xraph/gymledger/types"

// Position is the issuance gateway's accounting state. Price is the cost of
// one balance unit in external payment units; TotalIssued accumulates every
// unit ever sold; Collected is the payment taken in and not yet withdrawn.
type Position struct {
	Price       types.Amount `json:"price"`
	TotalIssued types.Amount `json:"total_issued"`
	Collected   types.Amount `json:"collected"`
}

// Quote returns how many units payment buys at the current price and the
// unconverted remainder. Integer division; the remainder is not converted
// and not refunded.
func (p Position) Quote(payment types.Amount) (tokens, remainder types.Amount) {
	if !p.Price.IsPositive() {
		return 0, payment
	}
	return payment.Div(p.Price), payment.Mod(p.Price)
}
