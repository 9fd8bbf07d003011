package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-gorden/internal/common"
)

// A lead is a customer-submitted calculator computation captured by the
// storefront before any operator involvement: openings with dimensions, a
// chosen fabric, and selected accessory components. Conversion turns it
// into the quotation skeleton the operator finishes by hand.

// Default boilerplate applied to lead-sourced quotations until the operator
// edits them.
const (
	DefaultPaymentTerms = "DP 50%, pelunasan saat pemasangan"
	DefaultNotes        = "Harga berlaku 14 hari sejak penawaran diterbitkan"
)

// LeadFabric is the fabric selection of one lead item.
type LeadFabric struct {
	Name          string
	PricePerMeter decimal.Decimal
	Meters        decimal.Decimal
	FabricPrice   decimal.Decimal
}

// LeadComponent is one selected accessory (rail, bracket, hook, ...).
type LeadComponent struct {
	Label       string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// LeadItem is one opening the customer measured.
type LeadItem struct {
	ItemType    string
	PackageType string
	WidthCm     decimal.Decimal
	HeightCm    decimal.Decimal
	Quantity    int
	Fabric      LeadFabric
	Components  []LeadComponent
}

// Lead is the full stored calculator submission.
type Lead struct {
	Items []LeadItem
}

// ParseLead decodes a stored calculator payload. The payload may be plain
// JSON, double-encoded JSON, or partially mistyped; missing pieces default
// so a half-filled submission still converts.
func ParseLead(raw []byte) Lead {
	var decoded any
	if !common.UnmarshalLenient(raw, &decoded) {
		return Lead{}
	}
	m := common.MapOf(decoded)
	if m == nil {
		return Lead{}
	}
	var lead Lead
	for _, item := range common.SliceOf(common.Pick(m, "items", "calculations")) {
		lead.Items = append(lead.Items, leadItemFromAny(item))
	}
	return lead
}

func leadItemFromAny(v any) LeadItem {
	m := common.MapOf(v)
	if m == nil {
		return LeadItem{Quantity: 1}
	}
	item := LeadItem{
		ItemType:    common.StringOf(common.Pick(m, "item_type", "itemType", "type")),
		PackageType: common.StringOf(common.Pick(m, "package_type", "packageType", "package")),
		WidthCm:     common.DecimalOf(common.Pick(m, "width", "width_cm", "widthCm")),
		HeightCm:    common.DecimalOf(common.Pick(m, "height", "height_cm", "heightCm")),
		Quantity:    common.IntOf(common.Pick(m, "quantity", "qty"), 1),
	}
	if fm := common.MapOf(common.Pick(m, "fabric", "selected_fabric", "selectedFabric")); fm != nil {
		item.Fabric = LeadFabric{
			Name:          common.StringOf(common.Pick(fm, "name", "variant_name", "variantName")),
			PricePerMeter: common.DecimalOf(common.Pick(fm, "price_per_meter", "pricePerMeter", "price")),
			Meters:        common.DecimalOf(common.Pick(fm, "meters", "total_meters", "totalMeters")),
			FabricPrice:   common.DecimalOf(common.Pick(fm, "fabric_price", "fabricPrice", "total")),
		}
	}
	for _, c := range common.SliceOf(common.Pick(m, "components", "selected_components", "selectedComponents")) {
		cm := common.MapOf(c)
		if cm == nil {
			continue
		}
		item.Components = append(item.Components, LeadComponent{
			Label:       common.StringOf(common.Pick(cm, "label")),
			ProductName: common.StringOf(common.Pick(cm, "product_name", "productName", "name")),
			UnitPrice:   common.DecimalOf(common.Pick(cm, "unit_price", "unitPrice", "price")),
			Quantity:    common.IntOf(common.Pick(cm, "quantity", "qty"), 1),
		})
	}
	return item
}

// ConvertOptions overrides the boilerplate applied during conversion.
type ConvertOptions struct {
	PaymentTerms string
	Notes        string
}

// ConvertLead maps a lead into the quotation shape: one section per item,
// fabric first, then one line per component. Section and line ids are
// derived from the item index so repeated conversion of the same lead is
// value-equal. Lead-sourced quotations never carry a discount; the operator
// adds one later if negotiated.
func ConvertLead(lead Lead, opts ConvertOptions) Quotation {
	q := Quotation{
		GlobalDiscountPercent: decimal.Zero,
		PaymentTerms:          opts.PaymentTerms,
		Notes:                 opts.Notes,
	}
	if q.PaymentTerms == "" {
		q.PaymentTerms = DefaultPaymentTerms
	}
	if q.Notes == "" {
		q.Notes = DefaultNotes
	}

	for i, item := range lead.Items {
		sectionID := fmt.Sprintf("item-%d", i+1)
		itemType := item.ItemType
		if itemType == "" {
			itemType = "jendela"
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		section := Section{
			ID:        sectionID,
			Title:     fmt.Sprintf("Item %d (%s)", i+1, itemType),
			SizeLabel: fmt.Sprintf("%s x %s cm", item.WidthCm, item.HeightCm),
			TypeLabel: item.PackageType,
		}

		fabricName := item.Fabric.Name
		if !item.Fabric.Meters.IsZero() {
			fabricName = fmt.Sprintf("%s (%s m)", item.Fabric.Name, item.Fabric.Meters)
		}
		section.Lines = append(section.Lines, Line{
			ID:        sectionID + "-fabric",
			Name:      fabricName,
			UnitPrice: item.Fabric.PricePerMeter,
			Quantity:  qty,
		})

		for j, c := range item.Components {
			cqty := c.Quantity
			if cqty < 1 {
				cqty = 1
			}
			section.Lines = append(section.Lines, Line{
				ID:        fmt.Sprintf("%s-comp-%d", sectionID, j+1),
				Name:      fmt.Sprintf("%s: %s", c.Label, c.ProductName),
				UnitPrice: c.UnitPrice,
				Quantity:  cqty,
			})
		}
		q.Sections = append(q.Sections, section)
	}
	return q
}
