// Package money is the single place invoice and work-order arithmetic is
// allowed to happen. Handlers and renderers must not recompute totals on
// their own.
//
// All functions are pure and deterministic. Negative operands are clamped to
// zero rather than rejected. Values are kept at full decimal precision
// internally; Format renders two decimal places for presentation boundaries.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/model"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	cent    = decimal.RequireFromString("0.01")
)

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// LaborCost is hours times the hourly rate.
func LaborCost(hours, hourlyRate decimal.Decimal) decimal.Decimal {
	return clamp(hours).Mul(clamp(hourlyRate))
}

// PartsCost sums cost times quantity over the part list.
func PartsCost(parts []model.WorkOrderPart) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(clamp(p.Cost).Mul(clamp(p.Quantity)))
	}
	return total
}

// ChargesCost sums miscellaneous charge amounts.
func ChargesCost(charges []model.OtherCharge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(clamp(c.Amount))
	}
	return total
}

// WorkOrderTotal is the canonical work-order cost: labor plus parts plus
// other charges. Stored totals are always recomputed through here.
func WorkOrderTotal(hours, hourlyRate decimal.Decimal, parts []model.WorkOrderPart, charges []model.OtherCharge) decimal.Decimal {
	return LaborCost(hours, hourlyRate).Add(PartsCost(parts)).Add(ChargesCost(charges))
}

// SellingPrice applies the markup percentage to a part's cost basis. With
// roundToNinetyNine the marked-up price snaps to a .99 price point using
// ceil(price) - 0.01, so a computed 12.00 sells at 11.99 and a price already
// at a .99 boundary is left alone.
func SellingPrice(cost, markupPercentage decimal.Decimal, roundToNinetyNine bool) decimal.Decimal {
	price := clamp(cost).Mul(one.Add(clamp(markupPercentage).Div(hundred)))
	if roundToNinetyNine {
		price = clamp(price.Ceil().Sub(cent))
	}
	return price
}

// TaxBase selects the amount the tax percentage applies against. Unknown
// scopes fall back to the full base.
func TaxBase(scope model.TaxScope, labor, parts decimal.Decimal) decimal.Decimal {
	switch scope {
	case model.TaxScopeParts:
		return clamp(parts)
	case model.TaxScopeLabor:
		return clamp(labor)
	default:
		return clamp(labor).Add(clamp(parts))
	}
}

// TaxAmount is base times percentage over one hundred.
func TaxAmount(base, percentage decimal.Decimal) decimal.Decimal {
	return clamp(base).Mul(clamp(percentage)).Div(hundred)
}

// InvoiceTotal is subtotal plus tax minus discount, floored at zero: a
// discount can never drive an invoice negative.
func InvoiceTotal(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return clamp(clamp(subtotal).Add(clamp(tax)).Sub(clamp(discount)))
}

// Format renders a money value with exactly two decimal places. Only
// presentation boundaries (JSON responses, documents) use this; internal
// math never truncates.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
