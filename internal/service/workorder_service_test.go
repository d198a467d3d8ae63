package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

func newWorkOrderFixture() (*service.WorkOrderService, *fakeWorkOrderStore, *fakeTicketStore, uuid.UUID, model.Principal) {
	tickets := newFakeTicketStore()
	orders := newFakeWorkOrderStore()
	orgID := tickets.addOrg(model.Organization{Name: "Cedar Flats", Type: model.OrgTypeOrganization})
	ticketID := tickets.addTicket(model.Ticket{OrgID: orgID, Title: "HVAC service", Status: model.TicketStatusInProgress})
	admin := model.Principal{UserID: uuid.New(), OrgID: orgID, Role: model.RoleOrgAdmin}
	return service.NewWorkOrderService(orders, tickets), orders, tickets, ticketID, admin
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateWorkOrderRecomputesTotal(t *testing.T) {
	svc, _, _, ticketID, admin := newWorkOrderFixture()
	ctx := context.Background()

	order, err := svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "Dana Reyes",
		Status:         model.WorkOrderStatusCompleted,
		HoursWorked:    dec("3"),
		HourlyRate:     dec("75"),
		Parts: []model.WorkOrderPart{
			{Name: "Capacitor", Quantity: dec("2"), Cost: dec("20")},
		},
		OtherCharges: []model.OtherCharge{
			{Description: "Disposal fee", Amount: dec("15")},
		},
	})
	require.NoError(t, err)
	// 3*75 + 2*20 + 15, whatever total the client may have claimed.
	require.Equal(t, "280.00", order.TotalCost.StringFixed(2))
	require.Equal(t, model.WorkOrderStatusCompleted, order.Status)
}

func TestCreateWorkOrderReturnNeededFlipsTicket(t *testing.T) {
	svc, _, tickets, ticketID, admin := newWorkOrderFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "Dana Reyes",
		Status:         model.WorkOrderStatusReturnNeeded,
		HoursWorked:    dec("1"),
		HourlyRate:     dec("75"),
	})
	require.NoError(t, err)

	ticket, err := tickets.Get(ctx, ticketID)
	require.NoError(t, err)
	require.Equal(t, model.TicketStatusReturnNeeded, ticket.Status)
}

func TestCreateWorkOrderValidation(t *testing.T) {
	svc, _, tickets, ticketID, admin := newWorkOrderFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "  ",
		Status:         model.WorkOrderStatusCompleted,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "Dana",
		Status:         "paused",
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "Dana",
		Status:         model.WorkOrderStatusCompleted,
		HoursWorked:    dec("-1"),
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	closed := tickets.addTicket(model.Ticket{OrgID: admin.OrgID, Title: "Closed", Status: model.TicketStatusCompleted})
	_, err = svc.Create(ctx, admin, service.CreateWorkOrderInput{
		TicketID:       closed,
		TechnicianName: "Dana",
		Status:         model.WorkOrderStatusCompleted,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestWorkOrderActorChecks(t *testing.T) {
	svc, _, tickets, ticketID, admin := newWorkOrderFixture()
	ctx := context.Background()

	vendorOrg := tickets.addOrg(model.Organization{Name: "Assigned Vendor", Type: model.OrgTypeVendor})
	assigned := tickets.tickets[ticketID]
	assigned.VendorID = &vendorOrg

	vendor := model.Principal{UserID: uuid.New(), OrgID: vendorOrg, Role: model.RoleVendor}
	_, err := svc.Create(ctx, vendor, service.CreateWorkOrderInput{
		TicketID:       ticketID,
		TechnicianName: "Vendor Tech",
		Status:         model.WorkOrderStatusCompleted,
		HoursWorked:    dec("2"),
		HourlyRate:     dec("60"),
	})
	require.NoError(t, err)

	otherOrg := tickets.addOrg(model.Organization{Name: "Other Vendor", Type: model.OrgTypeVendor})
	stranger := model.Principal{UserID: uuid.New(), OrgID: otherOrg, Role: model.RoleVendor}
	_, err = svc.ListForTicket(ctx, stranger, ticketID)
	require.ErrorIs(t, err, service.ErrPermissionDenied)

	orders, err := svc.ListForTicket(ctx, admin, ticketID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}
