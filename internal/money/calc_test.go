package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLaborCost(t *testing.T) {
	require.Equal(t, "225.00", money.LaborCost(dec("3"), dec("75")).StringFixed(2))
	require.Equal(t, "0.00", money.LaborCost(dec("-3"), dec("75")).StringFixed(2))
	require.Equal(t, "0.00", money.LaborCost(dec("3"), dec("-75")).StringFixed(2))
}

func TestPartsCost(t *testing.T) {
	parts := []model.WorkOrderPart{
		{Name: "Capacitor", Quantity: dec("2"), Cost: dec("20")},
		{Name: "Fuse", Quantity: dec("4"), Cost: dec("1.25")},
	}
	require.Equal(t, "45.00", money.PartsCost(parts).StringFixed(2))
	require.Equal(t, "0.00", money.PartsCost(nil).StringFixed(2))

	negative := []model.WorkOrderPart{{Name: "Refund", Quantity: dec("1"), Cost: dec("-10")}}
	require.Equal(t, "0.00", money.PartsCost(negative).StringFixed(2))
}

func TestWorkOrderTotal(t *testing.T) {
	parts := []model.WorkOrderPart{{Name: "Capacitor", Quantity: dec("2"), Cost: dec("20")}}
	charges := []model.OtherCharge{{Description: "Disposal", Amount: dec("15")}}
	total := money.WorkOrderTotal(dec("3"), dec("75"), parts, charges)
	require.Equal(t, "280.00", total.StringFixed(2))
}

func TestSellingPrice(t *testing.T) {
	cases := []struct {
		name   string
		cost   string
		markup string
		round  bool
		want   string
	}{
		{"plain markup", "10", "20", false, "12.00"},
		{"ninety nine rounding", "10", "20", true, "11.99"},
		{"already at boundary", "9.99", "0", true, "9.99"},
		{"fractional snaps up", "10.10", "0", true, "10.99"},
		{"zero markup", "50", "0", false, "50.00"},
		{"zero cost", "0", "35", true, "0.00"},
		{"negative clamps", "-10", "20", false, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := money.SellingPrice(dec(tc.cost), dec(tc.markup), tc.round)
			require.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestTaxBase(t *testing.T) {
	labor, parts := dec("450"), dec("40")
	require.Equal(t, "490.00", money.TaxBase(model.TaxScopeTotal, labor, parts).StringFixed(2))
	require.Equal(t, "40.00", money.TaxBase(model.TaxScopeParts, labor, parts).StringFixed(2))
	require.Equal(t, "450.00", money.TaxBase(model.TaxScopeLabor, labor, parts).StringFixed(2))
	require.Equal(t, "490.00", money.TaxBase("unknown", labor, parts).StringFixed(2))
}

func TestTaxAmount(t *testing.T) {
	require.Equal(t, "4.00", money.TaxAmount(dec("40"), dec("10")).StringFixed(2))
	require.Equal(t, "0.00", money.TaxAmount(dec("40"), dec("0")).StringFixed(2))
	require.Equal(t, "0.00", money.TaxAmount(dec("-40"), dec("10")).StringFixed(2))
}

func TestInvoiceTotal(t *testing.T) {
	require.Equal(t, "492.50", money.InvoiceTotal(dec("490"), dec("20"), dec("17.50")).StringFixed(2))
	// A discount larger than the invoice floors at zero.
	require.Equal(t, "0.00", money.InvoiceTotal(dec("100"), dec("10"), dec("500")).StringFixed(2))
	require.Equal(t, "110.00", money.InvoiceTotal(dec("100"), dec("10"), dec("-50")).StringFixed(2))
}

func TestFormat(t *testing.T) {
	require.Equal(t, "12.00", money.Format(dec("12")))
	require.Equal(t, "11.99", money.Format(dec("11.99")))
	require.Equal(t, "0.33", money.Format(dec("0.333")))
}
