package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/money"
)

type InvoiceStore interface {
	Create(ctx context.Context, invoice model.Invoice) (*model.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	NextInvoiceNumber(ctx context.Context) (int64, error)
}

type InvoiceTicketStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
}

type InvoiceRenderer interface {
	Render(doc model.InvoiceDocument) ([]byte, error)
}

// InvoiceService assembles invoices from a ticket's work orders. Labor rate
// and hours per line, and per-part selling prices, are the invoicing user's
// edited values, a deliberate re-pricing step rather than a read of the
// work order's recorded history. All arithmetic goes through the money
// package.
type InvoiceService struct {
	invoices InvoiceStore
	orders   WorkOrderStore
	tickets  InvoiceTicketStore
	renderer InvoiceRenderer
}

func NewInvoiceService(invoices InvoiceStore, orders WorkOrderStore, tickets InvoiceTicketStore, renderer InvoiceRenderer) *InvoiceService {
	return &InvoiceService{invoices: invoices, orders: orders, tickets: tickets, renderer: renderer}
}

type InvoiceLineInput struct {
	WorkOrderID uuid.UUID
	Hours       decimal.Decimal
	HourlyRate  decimal.Decimal
	// Parts overrides the work order's recorded parts with edited selling
	// prices. Nil keeps the recorded list.
	Parts []model.WorkOrderPart
}

type AssembleInvoiceInput struct {
	TicketID      uuid.UUID
	Lines         []InvoiceLineInput
	TaxScope      model.TaxScope
	TaxPercentage decimal.Decimal
	Discount      decimal.Decimal
	NetDays       int
	Notes         string
}

func (s *InvoiceService) Assemble(ctx context.Context, principal model.Principal, input AssembleInvoiceInput) (*model.Invoice, error) {
	if principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one work order line is required", ErrInvalidInput)
	}
	if input.NetDays < 0 {
		return nil, fmt.Errorf("%w: netDays must not be negative", ErrInvalidInput)
	}
	if input.TaxPercentage.IsNegative() || input.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: taxPercentage and discount must not be negative", ErrInvalidInput)
	}
	switch input.TaxScope {
	case model.TaxScopeTotal, model.TaxScopeParts, model.TaxScopeLabor:
	default:
		return nil, fmt.Errorf("%w: taxScope must be total, parts or labor", ErrInvalidInput)
	}

	ticket, err := s.tickets.Get(ctx, input.TicketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsRoot() && ticket.OrgID != principal.OrgID {
		return nil, ErrPermissionDenied
	}

	subtotal := decimal.Zero
	laborTotal := decimal.Zero
	partsTotal := decimal.Zero
	lines := make([]model.InvoiceLine, 0, len(input.Lines))

	for _, lineInput := range input.Lines {
		if lineInput.Hours.IsNegative() || lineInput.HourlyRate.IsNegative() {
			return nil, fmt.Errorf("%w: line hours and rate must not be negative", ErrInvalidInput)
		}

		order, err := s.orders.Get(ctx, lineInput.WorkOrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if order.TicketID != input.TicketID {
			return nil, fmt.Errorf("%w: work order %s does not belong to the ticket", ErrInvalidInput, order.ID)
		}

		parts := lineInput.Parts
		if parts == nil {
			parts = order.Parts
		}

		labor := money.LaborCost(lineInput.Hours, lineInput.HourlyRate)
		partsCost := money.PartsCost(parts)
		otherCost := money.ChargesCost(order.OtherCharges)
		lineTotal := labor.Add(partsCost).Add(otherCost)

		laborTotal = laborTotal.Add(labor)
		partsTotal = partsTotal.Add(partsCost)
		subtotal = subtotal.Add(lineTotal)

		lines = append(lines, model.InvoiceLine{
			WorkOrderID: order.ID,
			Hours:       lineInput.Hours,
			HourlyRate:  lineInput.HourlyRate,
			LaborCost:   labor,
			PartsCost:   partsCost,
			OtherCost:   otherCost,
			LineTotal:   lineTotal,
		})
	}

	taxBase := money.TaxBase(input.TaxScope, laborTotal, partsTotal)
	tax := money.TaxAmount(taxBase, input.TaxPercentage)
	total := money.InvoiceTotal(subtotal, tax, input.Discount)

	seq, err := s.invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	return s.invoices.Create(ctx, model.Invoice{
		TicketID:      input.TicketID,
		OrgID:         ticket.OrgID,
		InvoiceNumber: fmt.Sprintf("INV-%06d", seq),
		Subtotal:      subtotal,
		TaxScope:      input.TaxScope,
		TaxPercentage: input.TaxPercentage,
		TaxAmount:     tax,
		Discount:      input.Discount,
		Total:         total,
		NetDays:       input.NetDays,
		PaymentTerms:  fmt.Sprintf("Net %d", input.NetDays),
		IssuedAt:      issuedAt,
		DueDate:       issuedAt.AddDate(0, 0, input.NetDays),
		Notes:         input.Notes,
		CreatedByID:   principal.UserID,
		Lines:         lines,
	})
}

func (s *InvoiceService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsRoot() && invoice.OrgID != principal.OrgID {
		return nil, ErrPermissionDenied
	}
	return invoice, nil
}

type RenderedInvoice struct {
	FileName string
	Content  []byte
}

// RenderPDF produces the printable invoice document.
func (s *InvoiceService) RenderPDF(ctx context.Context, principal model.Principal, id uuid.UUID) (*RenderedInvoice, error) {
	invoice, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Get(ctx, invoice.TicketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	org, err := s.tickets.GetOrganization(ctx, invoice.OrgID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := model.InvoiceDocument{
		Invoice:     *invoice,
		Org:         *org,
		TicketTitle: ticket.Title,
	}
	if ticket.VendorID != nil {
		vendor, err := s.tickets.GetOrganization(ctx, *ticket.VendorID)
		if err == nil {
			doc.Vendor = vendor
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	content, err := s.renderer.Render(doc)
	if err != nil {
		return nil, err
	}
	return &RenderedInvoice{
		FileName: fmt.Sprintf("%s.pdf", sanitizeFileName(invoice.InvoiceNumber)),
		Content:  content,
	}, nil
}
