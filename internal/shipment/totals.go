package shipment

import (
	"fmt"
	"math"
)

// weightTolerance absorbs rounding differences between line weights and the
// gross total printed on the source document.
const weightTolerance = 0.01

// CheckTotals verifies that the reviewer-visible aggregates agree with the
// line items. Called when a job leaves review; totals are copied to the wire
// document verbatim, so an inconsistency here would be signed into the
// invoice.
func (d *ShipmentData) CheckTotals() error {
	if len(d.Mercancias) == 0 {
		return fmt.Errorf("no merchandise lines")
	}
	if d.Totales.NumTotalMercancias != len(d.Mercancias) {
		return fmt.Errorf("numTotalMercancias is %d but there are %d merchandise lines",
			d.Totales.NumTotalMercancias, len(d.Mercancias))
	}
	var sum float64
	for _, m := range d.Mercancias {
		sum += m.PesoKg
	}
	tol := math.Max(weightTolerance, 0.005*math.Abs(d.Totales.PesoBrutoTotal))
	if math.Abs(sum-d.Totales.PesoBrutoTotal) > tol {
		return fmt.Errorf("pesoBrutoTotal is %v but line weights sum to %v", d.Totales.PesoBrutoTotal, sum)
	}
	return nil
}
