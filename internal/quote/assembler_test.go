package quote_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-gorden/internal/quote"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireDecEqual(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %d, got %s", want, got)
}

func TestLineTotal(t *testing.T) {
	requireDecEqual(t, 180_000, quote.LineTotal(quote.Line{
		UnitPrice: dec(100_000), DiscountPercent: dec(10), Quantity: 2,
	}))
	requireDecEqual(t, 50_000, quote.LineTotal(quote.Line{
		UnitPrice: dec(50_000), Quantity: 1,
	}))
}

func TestLineTotalDegenerateInputs(t *testing.T) {
	t.Run("zero quantity counts as one", func(t *testing.T) {
		requireDecEqual(t, 50_000, quote.LineTotal(quote.Line{UnitPrice: dec(50_000), Quantity: 0}))
	})
	t.Run("negative quantity counts as one", func(t *testing.T) {
		requireDecEqual(t, 50_000, quote.LineTotal(quote.Line{UnitPrice: dec(50_000), Quantity: -3}))
	})
	t.Run("discount above 100 clamps", func(t *testing.T) {
		requireDecEqual(t, 0, quote.LineTotal(quote.Line{UnitPrice: dec(50_000), DiscountPercent: dec(250), Quantity: 2}))
	})
	t.Run("negative discount clamps to zero", func(t *testing.T) {
		requireDecEqual(t, 100_000, quote.LineTotal(quote.Line{UnitPrice: dec(50_000), DiscountPercent: dec(-10), Quantity: 2}))
	})
	t.Run("negative unit price counts as zero", func(t *testing.T) {
		requireDecEqual(t, 0, quote.LineTotal(quote.Line{UnitPrice: dec(-5_000), Quantity: 2}))
	})
}

func TestSectionSubtotalEmpty(t *testing.T) {
	requireDecEqual(t, 0, quote.SectionSubtotal(quote.Section{}))
}

// The reference scenario every rendering surface must agree on.
func TestComputeTotals(t *testing.T) {
	q := quote.Quotation{
		Sections: []quote.Section{
			{ID: "a", Lines: []quote.Line{
				{ID: "a1", UnitPrice: dec(100_000), DiscountPercent: dec(10), Quantity: 2},
			}},
			{ID: "b", Lines: []quote.Line{
				{ID: "b1", UnitPrice: dec(50_000), Quantity: 1},
			}},
		},
		GlobalDiscountPercent: dec(20),
	}
	totals := quote.ComputeTotals(q)
	requireDecEqual(t, 230_000, totals.Subtotal)
	requireDecEqual(t, 46_000, totals.DiscountAmount)
	requireDecEqual(t, 184_000, totals.GrandTotal)
}

func TestComputeTotalsNeverNegative(t *testing.T) {
	q := quote.Quotation{
		Sections: []quote.Section{
			{ID: "a", Lines: []quote.Line{{ID: "a1", UnitPrice: dec(10_000), Quantity: 1}}},
		},
		GlobalDiscountPercent: dec(500),
	}
	totals := quote.ComputeTotals(q)
	requireDecEqual(t, 10_000, totals.DiscountAmount)
	requireDecEqual(t, 0, totals.GrandTotal)
}

func TestComputeTotalsEmptyQuotation(t *testing.T) {
	totals := quote.ComputeTotals(quote.Quotation{GlobalDiscountPercent: dec(20)})
	requireDecEqual(t, 0, totals.Subtotal)
	requireDecEqual(t, 0, totals.GrandTotal)
}

func TestParseQuotationCoercesMistypedFields(t *testing.T) {
	body := []byte(`{
		"sections": [
			{"id": "s1", "title": "Jendela 1", "lines": [
				{"id": "l1", "name": "Blackout", "unit_price": "seratus", "quantity": 2},
				{"id": "l2", "name": "Rel", "unit_price": "75000", "quantity": "abc"}
			]}
		],
		"global_discount_percent": "10"
	}`)
	q := quote.ParseQuotation(body)
	require.Len(t, q.Sections, 1)
	require.Len(t, q.Sections[0].Lines, 2)

	totals := quote.ComputeTotals(q)
	// Non-numeric price collapses to 0, non-numeric quantity to 1:
	// 0*2 + 75000*1 = 75000, minus 10% = 67500. No NaN anywhere.
	requireDecEqual(t, 75_000, totals.Subtotal)
	requireDecEqual(t, 67_500, totals.GrandTotal)
}

func TestParseQuotationLegacyWindowsKey(t *testing.T) {
	body := []byte(`{"windows":[{"id":"w1","title":"Jendela","items":[{"id":"l1","price":20000,"qty":2}]}],"paymentTerms":"Lunas"}`)
	q := quote.ParseQuotation(body)
	require.Len(t, q.Sections, 1)
	require.Equal(t, "Lunas", q.PaymentTerms)
	requireDecEqual(t, 40_000, quote.SectionSubtotal(q.Sections[0]))
}

func TestParseQuotationMalformed(t *testing.T) {
	require.Empty(t, quote.ParseQuotation([]byte(`{broken`)).Sections)
	require.Empty(t, quote.ParseQuotation(nil).Sections)
}

func TestMutationsAreIDAddressedNoOps(t *testing.T) {
	base := quote.Quotation{
		Sections: []quote.Section{
			{ID: "s1", Title: "Jendela 1", Lines: []quote.Line{{ID: "l1", UnitPrice: dec(10_000), Quantity: 1}}},
		},
	}

	t.Run("remove missing section", func(t *testing.T) {
		require.Equal(t, base, quote.RemoveSection(base, "nope"))
	})
	t.Run("add line to missing section", func(t *testing.T) {
		require.Equal(t, base, quote.AddLine(base, "nope", quote.Line{ID: "l2"}))
	})
	t.Run("remove missing line", func(t *testing.T) {
		require.Equal(t, base, quote.RemoveLine(base, "s1", "nope"))
	})
	t.Run("update missing line", func(t *testing.T) {
		require.Equal(t, base, quote.UpdateLine(base, "s1", quote.Line{ID: "nope"}))
	})
}

func TestMutationsDoNotAliasInput(t *testing.T) {
	base := quote.Quotation{
		Sections: []quote.Section{
			{ID: "s1", Lines: []quote.Line{{ID: "l1", UnitPrice: dec(10_000), Quantity: 1}}},
		},
	}
	updated := quote.UpdateLine(base, "s1", quote.Line{ID: "l1", UnitPrice: dec(99_000), Quantity: 1})
	requireDecEqual(t, 10_000, base.Sections[0].Lines[0].UnitPrice)
	requireDecEqual(t, 99_000, updated.Sections[0].Lines[0].UnitPrice)

	grown := quote.AddLine(base, "s1", quote.Line{ID: "l2"})
	require.Len(t, base.Sections[0].Lines, 1)
	require.Len(t, grown.Sections[0].Lines, 2)
}

func TestMutationLifecycle(t *testing.T) {
	q := quote.Quotation{}
	q = quote.AddSection(q, quote.Section{ID: "s1", Title: "Jendela 1"})
	q = quote.AddLine(q, "s1", quote.Line{ID: "l1", UnitPrice: dec(100_000), Quantity: 2})
	q = quote.AddLine(q, "s1", quote.Line{ID: "l2", UnitPrice: dec(25_000), Quantity: 1})
	q = quote.UpdateLine(q, "s1", quote.Line{ID: "l2", UnitPrice: dec(30_000), Quantity: 1})
	q = quote.RemoveLine(q, "s1", "l1")
	q = quote.SetGlobalDiscount(q, dec(50))

	totals := quote.ComputeTotals(q)
	requireDecEqual(t, 30_000, totals.Subtotal)
	requireDecEqual(t, 15_000, totals.GrandTotal)

	q = quote.UpdateSection(q, quote.Section{ID: "s1", Title: "Pintu 1", SizeLabel: "90 x 210 cm"})
	require.Equal(t, "Pintu 1", q.Sections[0].Title)
	require.Len(t, q.Sections[0].Lines, 1, "label update keeps lines")

	q = quote.RemoveSection(q, "s1")
	require.Empty(t, q.Sections)
}
