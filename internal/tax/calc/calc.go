// Package calc implements the pricing arithmetic for multi-rate tax
// calculation. Everything in this package is a pure function of its
// arguments; persistence and rate resolution live in the service layer.
package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem is one priced unit of an order. Quantity and unit price are
// taken as-is; callers validate sign and range before pricing.
type LineItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Total returns quantity * unit price, unrounded.
func (li LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Rate is one configured tax rate. Percent is a percentage in [0, 100],
// possibly fractional (e.g. 8.875).
type Rate struct {
	ID      string
	Name    string
	Percent decimal.Decimal
}

// Selection marks which rates apply, keyed by rate ID. A missing key
// means not applied.
type Selection map[string]bool

// TaxLine is the amount owed for one rate on one line item (or, after
// aggregation, across a whole cart).
type TaxLine struct {
	TaxID  string
	Name   string
	Rate   decimal.Decimal
	Base   decimal.Decimal
	Amount decimal.Decimal
}

// CartResult holds cart-level totals plus the per-rate breakdown in
// first-seen order.
type CartResult struct {
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
	Breakdown  []TaxLine
}

// round2 rounds to two decimal places, half away from zero. Monetary
// amounts are rounded exactly once, at the point they are finalized.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// appliedPercentSum sums the percentages of the selected positive rates.
// Zero and negative rates never contribute; whether a rate is active is
// a catalog concern and deliberately not checked here.
func appliedPercentSum(applied Selection, catalog []Rate) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range catalog {
		if applied[r.ID] && r.Percent.IsPositive() {
			sum = sum.Add(r.Percent)
		}
	}
	return sum
}

// LineTaxes computes the per-rate tax lines for a single item.
//
// When taxIncluded is true the nominal line total already contains every
// applied tax, so all applied rates share a single backed-out base:
//
//	base = round2(lineTotal / (1 + sumPercents/100))
//
// When taxIncluded is false the base is the line total unchanged. Each
// amount is rounded as it is produced, so the sum of the emitted amounts
// may differ from a one-shot base*totalRate by at most a cent.
//
// Degenerate input (zero quantity, empty catalog, nothing selected)
// yields an empty result, never an error.
func LineTaxes(item LineItem, applied Selection, catalog []Rate, taxIncluded bool) []TaxLine {
	lineTotal := item.Total()

	base := lineTotal
	if taxIncluded {
		if sum := appliedPercentSum(applied, catalog); sum.IsPositive() {
			divisor := decimal.NewFromInt(1).Add(sum.Div(hundred))
			base = round2(lineTotal.Div(divisor))
		}
	}

	var lines []TaxLine
	for _, r := range catalog {
		if !applied[r.ID] || !r.Percent.IsPositive() {
			continue
		}
		lines = append(lines, TaxLine{
			TaxID:  r.ID,
			Name:   r.Name,
			Rate:   r.Percent,
			Base:   base,
			Amount: round2(base.Mul(r.Percent).Div(hundred)),
		})
	}
	return lines
}

// CartTaxes prices every item with LineTaxes and accumulates per-rate
// subtotals across the cart.
//
// Totals follow the pricing mode: with tax included the grand total is
// the sum of nominal line totals and the subtotal is the sum of
// backed-out bases; with tax excluded the subtotal is the sum of line
// totals and tax is added on top. The three totals get one final
// rounding pass so the visible error stays within a cent regardless of
// cart size.
func CartTaxes(items []LineItem, applied Selection, catalog []Rate, taxIncluded bool) CartResult {
	accumulated := make(map[string]*TaxLine)
	var order []string

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	grandTotal := decimal.Zero

	for _, item := range items {
		lineTotal := item.Total()
		lines := LineTaxes(item, applied, catalog, taxIncluded)

		lineTax := decimal.Zero
		for _, l := range lines {
			lineTax = lineTax.Add(l.Amount)

			entry, ok := accumulated[l.TaxID]
			if !ok {
				entry = &TaxLine{TaxID: l.TaxID, Name: l.Name, Rate: l.Rate}
				accumulated[l.TaxID] = entry
				order = append(order, l.TaxID)
			}
			entry.Base = entry.Base.Add(l.Base)
			entry.Amount = entry.Amount.Add(l.Amount)
		}

		if taxIncluded {
			if len(lines) > 0 {
				subtotal = subtotal.Add(lines[0].Base)
			} else {
				subtotal = subtotal.Add(lineTotal)
			}
			grandTotal = grandTotal.Add(lineTotal)
		} else {
			subtotal = subtotal.Add(lineTotal)
			grandTotal = grandTotal.Add(lineTotal).Add(lineTax)
		}
		taxTotal = taxTotal.Add(lineTax)
	}

	breakdown := make([]TaxLine, 0, len(order))
	for _, id := range order {
		breakdown = append(breakdown, *accumulated[id])
	}

	return CartResult{
		Subtotal:   round2(subtotal),
		TaxTotal:   round2(taxTotal),
		GrandTotal: round2(grandTotal),
		Breakdown:  breakdown,
	}
}
