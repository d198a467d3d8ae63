package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
)

type ExcelGenerator interface {
	Generate(report model.VendorBidReport) ([]byte, error)
}

// ReportService builds the vendor bid-activity spreadsheet export.
type ReportService struct {
	bids    BidStore
	tickets InvoiceTicketStore
	excel   ExcelGenerator
}

func NewReportService(bids BidStore, tickets InvoiceTicketStore, excel ExcelGenerator) *ReportService {
	return &ReportService{bids: bids, tickets: tickets, excel: excel}
}

type VendorBidReportInput struct {
	VendorID    uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Principal   model.Principal
}

type VendorBidReportResult struct {
	FileName string
	Content  []byte
}

func (s *ReportService) GenerateVendorBidReport(ctx context.Context, input VendorBidReportInput) (*VendorBidReportResult, error) {
	if input.VendorID == uuid.Nil {
		return nil, fmt.Errorf("%w: vendor_id is required", ErrInvalidInput)
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	if input.Principal.IsVendor() && input.Principal.OrgID != input.VendorID {
		return nil, ErrPermissionDenied
	}

	periodStart := dateOnly(input.PeriodStart)
	periodEnd := dateOnly(input.PeriodEnd)
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}
	endExclusive := periodEnd.Add(24 * time.Hour)

	vendor, err := s.tickets.GetOrganization(ctx, input.VendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if vendor.Type != model.OrgTypeVendor {
		return nil, fmt.Errorf("%w: target is not a vendor", ErrInvalidInput)
	}

	groups, err := s.bids.VendorBidGroups(ctx, input.VendorID, periodStart, endExclusive)
	if err != nil {
		return nil, err
	}

	totalBids := int64(0)
	statusCounts := make(map[model.BidStatus]int64)
	for _, group := range groups {
		for _, bid := range group.Versions {
			if bid.IsSuperseded {
				continue
			}
			totalBids++
			statusCounts[bid.Status]++
		}
	}

	report := model.VendorBidReport{
		Vendor:       *vendor,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TotalBids:    totalBids,
		StatusCounts: statusCounts,
		Tickets:      groups,
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}

	return &VendorBidReportResult{
		FileName: buildReportFileName(report),
		Content:  content,
	}, nil
}

func buildReportFileName(report model.VendorBidReport) string {
	target := sanitizeFileName(report.Vendor.Name)
	if target == "" {
		target = report.Vendor.ID.String()
	}
	period := fmt.Sprintf("%s-%s", report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	return fmt.Sprintf("vendor-bids-%s-%s.xlsx", target, period)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
