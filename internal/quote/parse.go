package quote

import (
	"github.com/noah-isme/backend-gorden/internal/common"
)

// Quotation bodies reach the API from the editor, from documents persisted
// by older application versions, and from exports that re-submit what they
// previously read. Field names drifted between snake_case and camelCase and
// sections were historically called "windows", so parsing goes through the
// shared lenient coercion rather than strict struct decoding. A field of
// the wrong type degrades to its safe default instead of failing the
// request.

// ParseQuotation decodes a possibly double-encoded quotation payload.
// Malformed input yields a zero-value Quotation, never an error.
func ParseQuotation(raw []byte) Quotation {
	var decoded any
	if !common.UnmarshalLenient(raw, &decoded) {
		return Quotation{}
	}
	return QuotationFromAny(decoded)
}

// QuotationFromAny coerces an already-decoded generic value into a
// Quotation.
func QuotationFromAny(v any) Quotation {
	m := common.MapOf(v)
	if m == nil {
		return Quotation{}
	}
	q := Quotation{
		GlobalDiscountPercent: common.DecimalOf(common.Pick(m, "global_discount_percent", "globalDiscountPercent", "discount")),
		PaymentTerms:          common.StringOf(common.Pick(m, "payment_terms", "paymentTerms")),
		Notes:                 common.StringOf(common.Pick(m, "notes")),
	}
	for _, item := range common.SliceOf(common.Pick(m, "sections", "windows")) {
		q.Sections = append(q.Sections, sectionFromAny(item))
	}
	return q
}

func sectionFromAny(v any) Section {
	m := common.MapOf(v)
	if m == nil {
		return Section{}
	}
	s := Section{
		ID:        common.StringOf(common.Pick(m, "id")),
		Title:     common.StringOf(common.Pick(m, "title")),
		SizeLabel: common.StringOf(common.Pick(m, "size_label", "sizeLabel", "size")),
		TypeLabel: common.StringOf(common.Pick(m, "type_label", "typeLabel", "type")),
	}
	for _, item := range common.SliceOf(common.Pick(m, "lines", "items")) {
		s.Lines = append(s.Lines, lineFromAny(item))
	}
	return s
}

func lineFromAny(v any) Line {
	m := common.MapOf(v)
	if m == nil {
		return Line{Quantity: 1}
	}
	return Line{
		ID:              common.StringOf(common.Pick(m, "id")),
		Name:            common.StringOf(common.Pick(m, "name")),
		UnitPrice:       common.DecimalOf(common.Pick(m, "unit_price", "unitPrice", "price")),
		DiscountPercent: common.DecimalOf(common.Pick(m, "discount_percent", "discountPercent", "discount")),
		Quantity:        common.IntOf(common.Pick(m, "quantity", "qty"), 1),
	}
}
