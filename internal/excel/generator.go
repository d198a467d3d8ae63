package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/propwise/marketplace-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.VendorBidReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, group := range report.Tickets {
		sheetName := buildSheetName(group.TicketTitle, group.TicketID, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeDetail(file, sheetName, group); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.VendorBidReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Vendor")
	set("B1", report.Vendor.Name)
	set("A2", "Period start")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Period end")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Active bids")
	set("B4", report.TotalBids)

	row := 6
	set(fmt.Sprintf("A%d", row), "Status")
	set(fmt.Sprintf("B%d", row), "Count")
	for _, status := range []model.BidStatus{
		model.BidStatusPending,
		model.BidStatusAccepted,
		model.BidStatusRejected,
		model.BidStatusCounter,
	} {
		row++
		set(fmt.Sprintf("A%d", row), string(status))
		set(fmt.Sprintf("B%d", row), report.StatusCounts[status])
	}

	row += 2
	set(fmt.Sprintf("A%d", row), "Ticket")
	set(fmt.Sprintf("B%d", row), "Versions")
	set(fmt.Sprintf("C%d", row), "Current amount")
	set(fmt.Sprintf("D%d", row), "Current status")
	for _, group := range report.Tickets {
		row++
		set(fmt.Sprintf("A%d", row), group.TicketTitle)
		set(fmt.Sprintf("B%d", row), len(group.Versions))
		if current, ok := currentBid(group); ok {
			set(fmt.Sprintf("C%d", row), formatAmount(current.TotalAmount))
			set(fmt.Sprintf("D%d", row), string(current.Status))
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 45)
	_ = file.SetColWidth(sheet, "B", "B", 14)
	_ = file.SetColWidth(sheet, "C", "D", 16)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, group model.TicketBidGroup) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Ticket")
	set("B1", group.TicketTitle)
	set("A2", "Versions")
	set("B2", len(group.Versions))

	tableRow := 4
	headers := []string{
		"Version",
		"Submitted",
		"Amount",
		"Hourly rate",
		"Est. hours",
		"Status",
		"Superseded",
		"Rejection reason",
		"Counter offer",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, bid := range group.Versions {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), bid.Version)
		set(fmt.Sprintf("B%d", row), formatDateTime(bid.CreatedAt))
		set(fmt.Sprintf("C%d", row), formatAmount(bid.TotalAmount))
		set(fmt.Sprintf("D%d", row), formatDecimal(bid.HourlyRate))
		set(fmt.Sprintf("E%d", row), formatDecimal(bid.EstimatedHours))
		set(fmt.Sprintf("F%d", row), string(bid.Status))
		set(fmt.Sprintf("G%d", row), formatBool(bid.IsSuperseded))
		set(fmt.Sprintf("H%d", row), formatString(bid.RejectionReason))
		set(fmt.Sprintf("I%d", row), formatDecimal(bid.CounterOffer))
	}

	_ = file.SetColWidth(sheet, "A", "A", 10)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	_ = file.SetColWidth(sheet, "C", "E", 14)
	_ = file.SetColWidth(sheet, "F", "G", 12)
	_ = file.SetColWidth(sheet, "H", "H", 40)
	_ = file.SetColWidth(sheet, "I", "I", 14)
	return nil
}

func currentBid(group model.TicketBidGroup) (model.Bid, bool) {
	for _, bid := range group.Versions {
		if !bid.IsSuperseded {
			return bid, true
		}
	}
	return model.Bid{}, false
}

func buildSheetName(title string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = id.String()
	}
	base = sanitizeSheetName(base)

	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDecimal(value *decimal.Decimal) string {
	if value == nil {
		return ""
	}
	return value.StringFixed(2)
}
