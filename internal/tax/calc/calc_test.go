package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, price string) LineItem {
	return LineItem{Quantity: dec(qty), UnitPrice: dec(price)}
}

func TestLineTaxes_ExclusiveSharesLineTotalAsBase(t *testing.T) {
	catalog := []Rate{
		{ID: "vat", Name: "VAT", Percent: dec("10")},
		{ID: "levy", Name: "Levy", Percent: dec("5")},
	}
	applied := Selection{"vat": true, "levy": true}

	lines := LineTaxes(item("1", "100"), applied, catalog, false)
	require.Len(t, lines, 2)

	assert.True(t, lines[0].Base.Equal(dec("100")), "base %s", lines[0].Base)
	assert.True(t, lines[1].Base.Equal(dec("100")))
	assert.True(t, lines[0].Amount.Equal(dec("10.00")), "amount %s", lines[0].Amount)
	assert.True(t, lines[1].Amount.Equal(dec("5.00")))
}

func TestLineTaxes_InclusiveBacksOutSharedBase(t *testing.T) {
	catalog := []Rate{{ID: "vat", Name: "VAT 19", Percent: dec("19")}}
	applied := Selection{"vat": true}

	lines := LineTaxes(item("1", "119"), applied, catalog, true)
	require.Len(t, lines, 1)

	assert.True(t, lines[0].Base.Equal(dec("100.00")), "base %s", lines[0].Base)
	assert.True(t, lines[0].Amount.Equal(dec("19.00")), "amount %s", lines[0].Amount)
}

func TestLineTaxes_InclusiveMultiRateSingleBase(t *testing.T) {
	catalog := []Rate{
		{ID: "a", Name: "A", Percent: dec("10")},
		{ID: "b", Name: "B", Percent: dec("5")},
	}
	applied := Selection{"a": true, "b": true}

	// 115 inclusive of 15% combined backs out to 100.
	lines := LineTaxes(item("1", "115"), applied, catalog, true)
	require.Len(t, lines, 2)

	assert.True(t, lines[0].Base.Equal(dec("100.00")))
	assert.True(t, lines[1].Base.Equal(lines[0].Base), "all applied rates share one base")
	assert.True(t, lines[0].Amount.Equal(dec("10.00")))
	assert.True(t, lines[1].Amount.Equal(dec("5.00")))
}

func TestLineTaxes_SkipsUnselectedAndZeroRates(t *testing.T) {
	catalog := []Rate{
		{ID: "vat", Name: "VAT", Percent: dec("19")},
		{ID: "zero", Name: "Zero", Percent: dec("0")},
		{ID: "other", Name: "Other", Percent: dec("7")},
	}
	applied := Selection{"vat": true, "zero": true}

	lines := LineTaxes(item("2", "10"), applied, catalog, false)
	require.Len(t, lines, 1)
	assert.Equal(t, "vat", lines[0].TaxID)
}

func TestLineTaxes_InclusiveZeroAppliedSumKeepsLineTotal(t *testing.T) {
	catalog := []Rate{{ID: "zero", Name: "Zero", Percent: dec("0")}}
	applied := Selection{"zero": true}

	lines := LineTaxes(item("1", "50"), applied, catalog, true)
	assert.Empty(t, lines)
}

func TestLineTaxes_FractionalRateRounding(t *testing.T) {
	// NY sales tax 8.875% on 100.00 rounds half away from zero to 8.88.
	catalog := []Rate{{ID: "ny", Name: "NY Sales Tax", Percent: dec("8.875")}}
	lines := LineTaxes(item("1", "100"), Selection{"ny": true}, catalog, false)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Amount.Equal(dec("8.88")), "amount %s", lines[0].Amount)
}

func TestLineTaxes_DegenerateInputs(t *testing.T) {
	catalog := []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}}

	assert.Empty(t, LineTaxes(item("0", "100"), Selection{}, catalog, false))
	assert.Empty(t, LineTaxes(item("1", "100"), Selection{}, nil, true))

	lines := LineTaxes(item("0", "100"), Selection{"vat": true}, catalog, false)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Amount.IsZero())
}

func TestCartTaxes_ReferenceScenario(t *testing.T) {
	// {quantity: 2, unitPrice: 50}, one default tax at 19%, exclusive.
	catalog := []Rate{{ID: "iva", Name: "IVA", Percent: dec("19")}}
	applied := Selection{"iva": true}

	res := CartTaxes([]LineItem{item("2", "50")}, applied, catalog, false)

	assert.True(t, res.Subtotal.Equal(dec("100.00")), "subtotal %s", res.Subtotal)
	assert.True(t, res.TaxTotal.Equal(dec("19.00")), "tax %s", res.TaxTotal)
	assert.True(t, res.GrandTotal.Equal(dec("119.00")), "grand %s", res.GrandTotal)

	require.Len(t, res.Breakdown, 1)
	assert.Equal(t, "iva", res.Breakdown[0].TaxID)
	assert.True(t, res.Breakdown[0].Base.Equal(dec("100.00")))
	assert.True(t, res.Breakdown[0].Amount.Equal(dec("19.00")))
}

func TestCartTaxes_NoAppliedTaxes(t *testing.T) {
	catalog := []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}}
	items := []LineItem{item("1", "10"), item("3", "4.5")}

	for _, taxIncluded := range []bool{false, true} {
		res := CartTaxes(items, Selection{}, catalog, taxIncluded)
		assert.True(t, res.TaxTotal.IsZero())
		assert.True(t, res.GrandTotal.Equal(res.Subtotal))
		assert.Empty(t, res.Breakdown)
	}
}

func TestCartTaxes_EmptyCart(t *testing.T) {
	res := CartTaxes(nil, Selection{"vat": true}, []Rate{{ID: "vat", Percent: dec("19")}}, false)
	assert.True(t, res.Subtotal.IsZero())
	assert.True(t, res.TaxTotal.IsZero())
	assert.True(t, res.GrandTotal.IsZero())
	assert.Empty(t, res.Breakdown)
}

func TestCartTaxes_ExclusiveTotalsIdentity(t *testing.T) {
	catalog := []Rate{
		{ID: "vat", Name: "VAT", Percent: dec("21")},
		{ID: "eco", Name: "Eco Levy", Percent: dec("2.5")},
	}
	applied := Selection{"vat": true, "eco": true}
	items := []LineItem{
		item("1", "19.99"),
		item("3", "7.49"),
		item("2", "0.05"),
	}

	res := CartTaxes(items, applied, catalog, false)

	diff := res.GrandTotal.Sub(res.Subtotal.Add(res.TaxTotal)).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")), "grand=%s subtotal=%s tax=%s", res.GrandTotal, res.Subtotal, res.TaxTotal)
}

func TestCartTaxes_InclusiveGrandTotalIsNominalSum(t *testing.T) {
	catalog := []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}}
	applied := Selection{"vat": true}
	items := []LineItem{item("1", "119"), item("2", "59.50")}

	res := CartTaxes(items, applied, catalog, true)

	assert.True(t, res.GrandTotal.Equal(dec("238.00")), "grand %s", res.GrandTotal)
	// subtotal + tax approximates the nominal sum within per-line rounding.
	diff := res.GrandTotal.Sub(res.Subtotal.Add(res.TaxTotal)).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.02")))
}

func TestCartTaxes_BreakdownAccumulatesAcrossLines(t *testing.T) {
	catalog := []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}}
	applied := Selection{"vat": true}

	var items []LineItem
	perLine := LineTaxes(item("1", "3.33"), applied, catalog, false)[0].Amount
	const n = 10
	for range n {
		items = append(items, item("1", "3.33"))
	}

	res := CartTaxes(items, applied, catalog, false)

	require.Len(t, res.Breakdown, 1)
	expected := perLine.Mul(decimal.NewFromInt(n))
	assert.True(t, res.Breakdown[0].Amount.Equal(expected), "got %s want %s", res.Breakdown[0].Amount, expected)
	assert.True(t, res.Breakdown[0].Base.Equal(dec("33.30")))
}

func TestCartTaxes_BreakdownKeepsFirstSeenNameAndRate(t *testing.T) {
	catalog := []Rate{
		{ID: "vat", Name: "VAT", Percent: dec("19")},
		{ID: "svc", Name: "Service Charge", Percent: dec("10")},
	}
	applied := Selection{"vat": true, "svc": true}
	items := []LineItem{item("1", "10"), item("1", "20")}

	res := CartTaxes(items, applied, catalog, false)

	require.Len(t, res.Breakdown, 2)
	assert.Equal(t, "vat", res.Breakdown[0].TaxID)
	assert.Equal(t, "VAT", res.Breakdown[0].Name)
	assert.True(t, res.Breakdown[0].Rate.Equal(dec("19")))
	assert.Equal(t, "svc", res.Breakdown[1].TaxID)
}

func TestCartTaxes_MixedRatesPerMode(t *testing.T) {
	tests := []struct {
		name        string
		taxIncluded bool
		items       []LineItem
		rates       []Rate
		applied     Selection
		subtotal    string
		taxTotal    string
		grandTotal  string
	}{
		{
			name:        "exclusive two rates",
			taxIncluded: false,
			items:       []LineItem{item("1", "100")},
			rates: []Rate{
				{ID: "a", Name: "A", Percent: dec("10")},
				{ID: "b", Name: "B", Percent: dec("5")},
			},
			applied:    Selection{"a": true, "b": true},
			subtotal:   "100.00",
			taxTotal:   "15.00",
			grandTotal: "115.00",
		},
		{
			name:        "inclusive single rate",
			taxIncluded: true,
			items:       []LineItem{item("1", "119")},
			rates:       []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}},
			applied:     Selection{"vat": true},
			subtotal:    "100.00",
			taxTotal:    "19.00",
			grandTotal:  "119.00",
		},
		{
			name:        "inclusive untaxed line keeps nominal subtotal",
			taxIncluded: true,
			items:       []LineItem{item("1", "119"), item("1", "25")},
			rates:       []Rate{{ID: "vat", Name: "VAT", Percent: dec("19")}},
			applied:     Selection{},
			subtotal:    "144.00",
			taxTotal:    "0",
			grandTotal:  "144.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CartTaxes(tt.items, tt.applied, tt.rates, tt.taxIncluded)
			assert.True(t, res.Subtotal.Equal(dec(tt.subtotal)), "subtotal %s", res.Subtotal)
			assert.True(t, res.TaxTotal.Equal(dec(tt.taxTotal)), "tax %s", res.TaxTotal)
			assert.True(t, res.GrandTotal.Equal(dec(tt.grandTotal)), "grand %s", res.GrandTotal)
		})
	}
}
