package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

func TestGenerateVendorBidReport(t *testing.T) {
	tickets := newFakeTicketStore()
	bids := newFakeBidStore(tickets)
	excel := &fakeExcelGenerator{}
	svc := service.NewReportService(bids, tickets, excel)
	bidSvc := service.NewBidService(bids, tickets)
	ctx := context.Background()

	orgID := tickets.addOrg(model.Organization{Name: "Maple Estates", Type: model.OrgTypeOrganization})
	vendorOrgID := tickets.addOrg(model.Organization{Name: "Bright Fix Co", Type: model.OrgTypeVendor})
	ticketID := tickets.addTicket(model.Ticket{OrgID: orgID, Title: "Repaint lobby", Status: model.TicketStatusAccepted, Marketplace: true})

	vendor := model.Principal{UserID: uuid.New(), OrgID: vendorOrgID, Role: model.RoleVendor}
	v1, err := bidSvc.Submit(ctx, vendor, ticketID, service.BidOffer{TotalAmount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	_, err = bidSvc.Update(ctx, vendor, v1.ID, service.BidOffer{TotalAmount: decimal.NewFromInt(450)})
	require.NoError(t, err)

	today := time.Now().UTC()
	result, err := svc.GenerateVendorBidReport(ctx, service.VendorBidReportInput{
		VendorID:    vendorOrgID,
		PeriodStart: today.AddDate(0, 0, -7),
		PeriodEnd:   today,
		Principal:   vendor,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	require.Contains(t, result.FileName, "vendor-bids-Bright-Fix-Co-")
	require.Contains(t, result.FileName, ".xlsx")

	require.Len(t, excel.reports, 1)
	report := excel.reports[0]
	// Superseded versions appear in the chain but not in the counts.
	require.Equal(t, int64(1), report.TotalBids)
	require.Equal(t, int64(1), report.StatusCounts[model.BidStatusPending])
	require.Len(t, report.Tickets, 1)
	require.Len(t, report.Tickets[0].Versions, 2)
	require.Equal(t, "Repaint lobby", report.Tickets[0].TicketTitle)
}

func TestGenerateVendorBidReportScoping(t *testing.T) {
	tickets := newFakeTicketStore()
	bids := newFakeBidStore(tickets)
	svc := service.NewReportService(bids, tickets, &fakeExcelGenerator{})
	ctx := context.Background()

	vendorOrgID := tickets.addOrg(model.Organization{Name: "Bright Fix Co", Type: model.OrgTypeVendor})
	plainOrgID := tickets.addOrg(model.Organization{Name: "Maple Estates", Type: model.OrgTypeOrganization})

	otherVendor := model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: model.RoleVendor}
	today := time.Now().UTC()

	_, err := svc.GenerateVendorBidReport(ctx, service.VendorBidReportInput{
		VendorID:    vendorOrgID,
		PeriodStart: today.AddDate(0, 0, -7),
		PeriodEnd:   today,
		Principal:   otherVendor,
	})
	require.ErrorIs(t, err, service.ErrPermissionDenied)

	admin := model.Principal{UserID: uuid.New(), OrgID: plainOrgID, Role: model.RoleOrgAdmin}
	_, err = svc.GenerateVendorBidReport(ctx, service.VendorBidReportInput{
		VendorID:    plainOrgID,
		PeriodStart: today.AddDate(0, 0, -7),
		PeriodEnd:   today,
		Principal:   admin,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.GenerateVendorBidReport(ctx, service.VendorBidReportInput{
		VendorID:    vendorOrgID,
		PeriodStart: today,
		PeriodEnd:   today.AddDate(0, 0, -7),
		Principal:   admin,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}
