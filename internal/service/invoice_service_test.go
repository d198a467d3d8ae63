package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/service"
)

type invoiceFixture struct {
	svc      *service.InvoiceService
	invoices *fakeInvoiceStore
	orders   *fakeWorkOrderStore
	tickets  *fakeTicketStore
	renderer *fakeRenderer
	ticketID uuid.UUID
	admin    model.Principal
}

func newInvoiceFixture() *invoiceFixture {
	tickets := newFakeTicketStore()
	orders := newFakeWorkOrderStore()
	invoices := newFakeInvoiceStore()
	renderer := &fakeRenderer{}

	orgID := tickets.addOrg(model.Organization{Name: "Birch Court", Type: model.OrgTypeOrganization})
	ticketID := tickets.addTicket(model.Ticket{OrgID: orgID, Title: "Water heater replacement", Status: model.TicketStatusCompleted})
	admin := model.Principal{UserID: uuid.New(), OrgID: orgID, Role: model.RoleOrgAdmin}

	return &invoiceFixture{
		svc:      service.NewInvoiceService(invoices, orders, tickets, renderer),
		invoices: invoices,
		orders:   orders,
		tickets:  tickets,
		renderer: renderer,
		ticketID: ticketID,
		admin:    admin,
	}
}

func (f *invoiceFixture) addWorkOrder(t *testing.T, parts []model.WorkOrderPart, charges []model.OtherCharge) uuid.UUID {
	t.Helper()
	order, err := f.orders.Create(context.Background(), model.WorkOrder{
		TicketID:       f.ticketID,
		TechnicianName: "Crew",
		Status:         model.WorkOrderStatusCompleted,
		HoursWorked:    dec("4"),
		HourlyRate:     dec("80"),
		Parts:          parts,
		OtherCharges:   charges,
	})
	require.NoError(t, err)
	return order.ID
}

func TestAssembleInvoice(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	orderID := f.addWorkOrder(t,
		[]model.WorkOrderPart{{Name: "Heater", Quantity: dec("1"), Cost: dec("400")}},
		[]model.OtherCharge{{Description: "Permit", Amount: dec("40")}},
	)

	// Edited pricing: 5h at 50 plus a re-priced part list.
	invoice, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines: []service.InvoiceLineInput{{
			WorkOrderID: orderID,
			Hours:       dec("5"),
			HourlyRate:  dec("50"),
			Parts:       []model.WorkOrderPart{{Name: "Heater", Quantity: dec("1"), Cost: dec("200")}},
		}},
		TaxScope:      model.TaxScopeParts,
		TaxPercentage: dec("10"),
		Discount:      dec("17.50"),
		NetDays:       30,
	})
	require.NoError(t, err)

	// labor 250 + parts 200 + other 40 = 490; tax 10% of parts = 20;
	// 490 + 20 - 17.50 = 492.50.
	require.Equal(t, "490.00", invoice.Subtotal.StringFixed(2))
	require.Equal(t, "20.00", invoice.TaxAmount.StringFixed(2))
	require.Equal(t, "492.50", invoice.Total.StringFixed(2))
	require.Equal(t, "INV-000001", invoice.InvoiceNumber)
	require.Equal(t, "Net 30", invoice.PaymentTerms)
	require.Equal(t, invoice.IssuedAt.AddDate(0, 0, 30), invoice.DueDate)
	require.Len(t, invoice.Lines, 1)
	require.Equal(t, "250.00", invoice.Lines[0].LaborCost.StringFixed(2))
	require.Equal(t, "200.00", invoice.Lines[0].PartsCost.StringFixed(2))
	require.Equal(t, "40.00", invoice.Lines[0].OtherCost.StringFixed(2))
}

func TestAssembleInvoiceLinesKeepSubmissionOrder(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	first := f.addWorkOrder(t, nil, nil)
	second := f.addWorkOrder(t, nil, nil)
	third := f.addWorkOrder(t, nil, nil)

	invoice, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines: []service.InvoiceLineInput{
			{WorkOrderID: first, Hours: dec("1"), HourlyRate: dec("50")},
			{WorkOrderID: second, Hours: dec("2"), HourlyRate: dec("50")},
			{WorkOrderID: third, Hours: dec("3"), HourlyRate: dec("50")},
		},
		TaxScope: model.TaxScopeTotal,
	})
	require.NoError(t, err)

	fetched, err := f.svc.Get(ctx, f.admin, invoice.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 3)
	require.Equal(t, first, fetched.Lines[0].WorkOrderID)
	require.Equal(t, second, fetched.Lines[1].WorkOrderID)
	require.Equal(t, third, fetched.Lines[2].WorkOrderID)
}

func TestAssembleInvoiceKeepsRecordedPartsWhenOmitted(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	orderID := f.addWorkOrder(t,
		[]model.WorkOrderPart{{Name: "Valve", Quantity: dec("2"), Cost: dec("30")}},
		nil,
	)

	invoice, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines: []service.InvoiceLineInput{{
			WorkOrderID: orderID,
			Hours:       dec("1"),
			HourlyRate:  dec("100"),
		}},
		TaxScope: model.TaxScopeTotal,
	})
	require.NoError(t, err)
	require.Equal(t, "60.00", invoice.Lines[0].PartsCost.StringFixed(2))
	require.Equal(t, "160.00", invoice.Subtotal.StringFixed(2))
}

func TestAssembleInvoiceValidation(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	_, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		TaxScope: model.TaxScopeTotal,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	orderID := f.addWorkOrder(t, nil, nil)

	_, err = f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines:    []service.InvoiceLineInput{{WorkOrderID: orderID}},
		TaxScope: "shipping",
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines:    []service.InvoiceLineInput{{WorkOrderID: orderID}},
		TaxScope: model.TaxScopeTotal,
		NetDays:  -5,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	// Lines must reference the invoiced ticket's own work orders.
	otherTicket := f.tickets.addTicket(model.Ticket{OrgID: f.admin.OrgID, Title: "Other", Status: model.TicketStatusCompleted})
	foreign, err := f.orders.Create(ctx, model.WorkOrder{TicketID: otherTicket, TechnicianName: "X", Status: model.WorkOrderStatusCompleted})
	require.NoError(t, err)
	_, err = f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines:    []service.InvoiceLineInput{{WorkOrderID: foreign.ID}},
		TaxScope: model.TaxScopeTotal,
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	vendor := model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: model.RoleVendor}
	_, err = f.svc.Assemble(ctx, vendor, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines:    []service.InvoiceLineInput{{WorkOrderID: orderID}},
		TaxScope: model.TaxScopeTotal,
	})
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestAssembleInvoiceDiscountCannotGoNegative(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	orderID := f.addWorkOrder(t, nil, nil)
	invoice, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines: []service.InvoiceLineInput{{
			WorkOrderID: orderID,
			Hours:       dec("1"),
			HourlyRate:  dec("50"),
		}},
		TaxScope: model.TaxScopeTotal,
		Discount: dec("500"),
	})
	require.NoError(t, err)
	require.Equal(t, "0.00", invoice.Total.StringFixed(2))
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	orderID := f.addWorkOrder(t, nil, nil)
	line := service.InvoiceLineInput{WorkOrderID: orderID, Hours: dec("1"), HourlyRate: dec("50")}

	first, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID, Lines: []service.InvoiceLineInput{line}, TaxScope: model.TaxScopeTotal,
	})
	require.NoError(t, err)
	second, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID, Lines: []service.InvoiceLineInput{line}, TaxScope: model.TaxScopeTotal,
	})
	require.NoError(t, err)
	require.Equal(t, "INV-000001", first.InvoiceNumber)
	require.Equal(t, "INV-000002", second.InvoiceNumber)
}

func TestRenderInvoicePDF(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	vendorOrg := f.tickets.addOrg(model.Organization{Name: "Plumb Perfect", Type: model.OrgTypeVendor})
	stored := f.tickets.tickets[f.ticketID]
	stored.VendorID = &vendorOrg

	orderID := f.addWorkOrder(t, nil, nil)
	invoice, err := f.svc.Assemble(ctx, f.admin, service.AssembleInvoiceInput{
		TicketID: f.ticketID,
		Lines: []service.InvoiceLineInput{{
			WorkOrderID: orderID,
			Hours:       dec("2"),
			HourlyRate:  dec("90"),
		}},
		TaxScope: model.TaxScopeTotal,
	})
	require.NoError(t, err)

	rendered, err := f.svc.RenderPDF(ctx, f.admin, invoice.ID)
	require.NoError(t, err)
	require.Equal(t, invoice.InvoiceNumber+".pdf", rendered.FileName)
	require.NotEmpty(t, rendered.Content)

	require.Len(t, f.renderer.rendered, 1)
	doc := f.renderer.rendered[0]
	require.Equal(t, "Water heater replacement", doc.TicketTitle)
	require.NotNil(t, doc.Vendor)
	require.Equal(t, "Plumb Perfect", doc.Vendor.Name)

	// Invoices are scoped to the owning organization.
	stranger := model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: model.RoleOrgAdmin}
	_, err = f.svc.Get(ctx, stranger, invoice.ID)
	require.ErrorIs(t, err, service.ErrPermissionDenied)
}
