// Package quote assembles hierarchical quotations (sections per physical
// opening, line items per section) and computes their totals. Every surface
// that shows a number (editor, preview, PDF export, admin list) consumes the
// totals computed here; none recompute the formula locally.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-gorden/internal/common"
)

// Line is one sellable line item within a section.
type Line struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Quantity        int             `json:"quantity"`
}

// Section groups the lines quoted for one physical opening (window/door).
type Section struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	SizeLabel string `json:"size_label"`
	TypeLabel string `json:"type_label"`
	Lines     []Line `json:"lines"`
}

// Quotation is the full document body: ordered sections plus the global
// discount and free-text terms.
type Quotation struct {
	Sections              []Section       `json:"sections"`
	GlobalDiscountPercent decimal.Decimal `json:"global_discount_percent"`
	PaymentTerms          string          `json:"payment_terms"`
	Notes                 string          `json:"notes"`
}

// Totals aggregates the derived amounts of a quotation.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

var oneHundred = decimal.NewFromInt(100)

// LineTotal computes unit price x (1 - discount/100) x quantity. Discount is
// clamped to [0, 100], quantity floors at 1, and a negative unit price
// counts as zero, so the result is never negative.
func LineTotal(l Line) decimal.Decimal {
	price := l.UnitPrice
	if price.IsNegative() {
		price = decimal.Zero
	}
	discount := common.ClampPercent(l.DiscountPercent)
	qty := l.Quantity
	if qty < 1 {
		qty = 1
	}
	factor := oneHundred.Sub(discount).Div(oneHundred)
	return price.Mul(factor).Mul(decimal.NewFromInt(int64(qty)))
}

// SectionSubtotal sums the line totals of a section; zero for no lines.
func SectionSubtotal(s Section) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range s.Lines {
		subtotal = subtotal.Add(LineTotal(l))
	}
	return subtotal
}

// ComputeTotals derives subtotal, global discount amount, and grand total.
// The discount clamp guarantees DiscountAmount <= Subtotal, so GrandTotal is
// never negative.
func ComputeTotals(q Quotation) Totals {
	subtotal := decimal.Zero
	for _, s := range q.Sections {
		subtotal = subtotal.Add(SectionSubtotal(s))
	}
	discount := subtotal.Mul(common.ClampPercent(q.GlobalDiscountPercent)).Div(oneHundred)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		GrandTotal:     subtotal.Sub(discount),
	}
}
