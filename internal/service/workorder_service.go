package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propwise/marketplace-service/internal/model"
	"github.com/propwise/marketplace-service/internal/money"
)

type WorkOrderStore interface {
	Create(ctx context.Context, order model.WorkOrder) (*model.WorkOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	ListForTicket(ctx context.Context, ticketID uuid.UUID) ([]model.WorkOrder, error)
}

// WorkOrderService records technician visits. The stored total is always
// recomputed from hours, parts and charges through the calculator; the
// client-sent total is ignored.
type WorkOrderService struct {
	orders  WorkOrderStore
	tickets TicketStatusStore
}

func NewWorkOrderService(orders WorkOrderStore, tickets TicketStatusStore) *WorkOrderService {
	return &WorkOrderService{orders: orders, tickets: tickets}
}

type CreateWorkOrderInput struct {
	TicketID        uuid.UUID
	TechnicianName  string
	Description     string
	Status          model.WorkOrderStatus
	HoursWorked     decimal.Decimal
	HourlyRate      decimal.Decimal
	Parts           []model.WorkOrderPart
	OtherCharges    []model.OtherCharge
	CompletionNotes string
	ImageURLs       []string
}

func (s *WorkOrderService) Create(ctx context.Context, principal model.Principal, input CreateWorkOrderInput) (*model.WorkOrder, error) {
	if input.TechnicianName = strings.TrimSpace(input.TechnicianName); input.TechnicianName == "" {
		return nil, fmt.Errorf("%w: technicianName is required", ErrInvalidInput)
	}
	switch input.Status {
	case model.WorkOrderStatusCompleted, model.WorkOrderStatusReturnNeeded:
	default:
		return nil, fmt.Errorf("%w: status must be completed or return_needed", ErrInvalidInput)
	}
	if input.HoursWorked.IsNegative() || input.HourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: hours and rate must not be negative", ErrInvalidInput)
	}

	ticket, err := s.tickets.Get(ctx, input.TicketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.checkActor(principal, ticket); err != nil {
		return nil, err
	}
	if ticket.Terminal() {
		return nil, fmt.Errorf("%w: ticket is closed", ErrInvalidInput)
	}

	order, err := s.orders.Create(ctx, model.WorkOrder{
		TicketID:        input.TicketID,
		TechnicianName:  input.TechnicianName,
		Description:     input.Description,
		Status:          input.Status,
		HoursWorked:     input.HoursWorked,
		HourlyRate:      input.HourlyRate,
		Parts:           input.Parts,
		OtherCharges:    input.OtherCharges,
		TotalCost:       money.WorkOrderTotal(input.HoursWorked, input.HourlyRate, input.Parts, input.OtherCharges),
		CompletionNotes: input.CompletionNotes,
		ImageURLs:       input.ImageURLs,
	})
	if err != nil {
		return nil, err
	}

	// A return visit pushes the ticket back out of in_progress.
	if input.Status == model.WorkOrderStatusReturnNeeded {
		if err := s.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusReturnNeeded); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *WorkOrderService) ListForTicket(ctx context.Context, principal model.Principal, ticketID uuid.UUID) ([]model.WorkOrder, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.checkActor(principal, ticket); err != nil {
		return nil, err
	}
	return s.orders.ListForTicket(ctx, ticketID)
}

// checkActor admits root, the owning organization, and the assigned vendor.
func (s *WorkOrderService) checkActor(principal model.Principal, ticket *model.Ticket) error {
	if principal.IsRoot() {
		return nil
	}
	if principal.IsVendor() {
		if ticket.VendorID != nil && *ticket.VendorID == principal.OrgID {
			return nil
		}
		return ErrPermissionDenied
	}
	if ticket.OrgID != principal.OrgID {
		return ErrPermissionDenied
	}
	return nil
}
