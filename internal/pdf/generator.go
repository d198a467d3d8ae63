package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/propwise/marketplace-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Render produces the printable invoice. Amounts are already computed and
// rounded by the service; this only lays them out.
func (g *Generator) Render(doc model.InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice %s, issued %s", doc.Invoice.InvoiceNumber, formatDate(doc.Invoice.IssuedAt)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Ticket: %s", safeValue(doc.TicketTitle)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addOrgBlock(pdf, g.fontName, "Bill To", doc.Org)
	if doc.Vendor != nil {
		pdf.Ln(2)
		addOrgBlock(pdf, g.fontName, "Vendor", *doc.Vendor)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Work Orders", "", 1, "L", false, 0, "")

	headers := []string{"Work Order", "Hours", "Rate", "Labor", "Parts", "Other", "Line Total"}
	colWidths := []float64{50, 18, 22, 22, 22, 22, 24}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, line := range doc.Invoice.Lines {
		row := []string{
			shortID(line.WorkOrderID.String()),
			formatAmount(line.Hours),
			formatAmount(line.HourlyRate),
			formatAmount(line.LaborCost),
			formatAmount(line.PartsCost),
			formatAmount(line.OtherCost),
			formatAmount(line.LineTotal),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Subtotal: %s", formatAmount(doc.Invoice.Subtotal)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Tax (%s%% on %s): %s",
		doc.Invoice.TaxPercentage.StringFixed(2),
		taxScopeLabel(doc.Invoice.TaxScope),
		formatAmount(doc.Invoice.TaxAmount),
	), "", 1, "R", false, 0, "")
	if doc.Invoice.Discount.IsPositive() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Discount: -%s", formatAmount(doc.Invoice.Discount)), "", 1, "R", false, 0, "")
	}
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Due: %s", formatAmount(doc.Invoice.Total)), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment terms: %s, due %s", doc.Invoice.PaymentTerms, formatDate(doc.Invoice.DueDate)), "", 1, "L", false, 0, "")

	if strings.TrimSpace(doc.Invoice.Notes) != "" {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, doc.Invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addOrgBlock(pdf *gofpdf.Fpdf, fontName, title string, org model.Organization) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		org.Name,
		fmt.Sprintf("Contact: %s", safeValue(org.ContactName)),
		fmt.Sprintf("Address: %s", safeValue(org.Address)),
		fmt.Sprintf("Phone: %s, Email: %s", safeValue(org.Phone), safeValue(org.Email)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func taxScopeLabel(scope model.TaxScope) string {
	switch scope {
	case model.TaxScopeParts:
		return "parts"
	case model.TaxScopeLabor:
		return "labor"
	default:
		return "total"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
