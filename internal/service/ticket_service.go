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

type TicketStore interface {
	Create(ctx context.Context, ticket model.Ticket) (*model.Ticket, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error
	AssignVendor(ctx context.Context, id, vendorID uuid.UUID) error
	AssignTechnician(ctx context.Context, id, technicianID uuid.UUID, schedule *model.ProposedSchedule) error
	OpenMarketplace(ctx context.Context, id uuid.UUID) error
	HasScheduleOverlap(ctx context.Context, technicianID uuid.UUID, start, end time.Time) (bool, error)
	GetTechnician(ctx context.Context, id uuid.UUID) (*model.Technician, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
}

// TicketService creates tickets and resolves how an accepted ticket gets an
// executor: direct vendor, direct technician, or the marketplace. The three
// modes are mutually exclusive and role-gated.
type TicketService struct {
	tickets TicketStore
}

func NewTicketService(tickets TicketStore) *TicketService {
	return &TicketService{tickets: tickets}
}

type CreateTicketInput struct {
	Title       string
	Description string
	Priority    model.TicketPriority
}

func (s *TicketService) Create(ctx context.Context, principal model.Principal, input CreateTicketInput) (*model.Ticket, error) {
	if principal.IsVendor() {
		return nil, ErrPermissionDenied
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	switch input.Priority {
	case model.TicketPriorityLow, model.TicketPriorityMedium, model.TicketPriorityHigh:
	default:
		return nil, fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
	}

	return s.tickets.Create(ctx, model.Ticket{
		OrgID:       principal.OrgID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      model.TicketStatusOpen,
		CreatedByID: principal.UserID,
	})
}

type AcceptTicketInput struct {
	Mode         model.AssignmentMode
	VendorID     *uuid.UUID
	TechnicianID *uuid.UUID
	Schedule     *model.ProposedSchedule
}

// Accept resolves the assignment for an open ticket.
//
//   - vendor: organization-side roles; the ticket leaves marketplace
//     eligibility.
//   - technician: maintenance_admin only, and only onto its own
//     technicians; an optional proposed schedule is conflict-checked
//     against the technician's calendar (advisory, not a hard lock).
//   - marketplace: requires an org admin role holding the marketplace tier.
func (s *TicketService) Accept(ctx context.Context, principal model.Principal, ticketID uuid.UUID, input AcceptTicketInput) (*model.Ticket, error) {
	ticket, err := s.getOwned(ctx, principal, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != model.TicketStatusOpen {
		return nil, fmt.Errorf("%w: only an open ticket can be accepted", ErrInvalidInput)
	}

	switch input.Mode {
	case model.AssignVendor:
		if principal.IsVendor() || principal.IsMaintenanceAdmin() {
			return nil, ErrPermissionDenied
		}
		if input.VendorID == nil {
			return nil, fmt.Errorf("%w: vendorId is required for vendor assignment", ErrInvalidInput)
		}
		vendor, err := s.tickets.GetOrganization(ctx, *input.VendorID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if vendor.Type != model.OrgTypeVendor {
			return nil, fmt.Errorf("%w: assignment target is not a vendor", ErrInvalidInput)
		}
		if err := s.tickets.AssignVendor(ctx, ticketID, vendor.ID); err != nil {
			return nil, err
		}

	case model.AssignTechnician:
		if !(principal.IsMaintenanceAdmin() || principal.IsRoot()) {
			return nil, ErrPermissionDenied
		}
		if input.TechnicianID == nil {
			return nil, fmt.Errorf("%w: technicianId is required for technician assignment", ErrInvalidInput)
		}
		tech, err := s.tickets.GetTechnician(ctx, *input.TechnicianID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if principal.IsMaintenanceAdmin() && tech.OrgID != principal.OrgID {
			return nil, ErrPermissionDenied
		}
		if input.Schedule != nil {
			if !input.Schedule.End.After(input.Schedule.Start) {
				return nil, fmt.Errorf("%w: scheduledEnd must be after scheduledStart", ErrInvalidInput)
			}
			overlap, err := s.tickets.HasScheduleOverlap(ctx, tech.ID, input.Schedule.Start, input.Schedule.End)
			if err != nil {
				return nil, err
			}
			if overlap {
				return nil, ErrScheduleConflict
			}
		}
		if err := s.tickets.AssignTechnician(ctx, ticketID, tech.ID, input.Schedule); err != nil {
			return nil, err
		}

	case model.AssignMarketplace:
		if !principal.CanOpenMarketplace() {
			return nil, ErrPermissionDenied
		}
		if err := s.tickets.OpenMarketplace(ctx, ticketID); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: invalid assignment mode", ErrInvalidInput)
	}

	return s.tickets.Get(ctx, ticketID)
}

// ticketTransitions holds the externally driven lifecycle. Accept is
// handled by the assignment resolver above; return_needed arrives through
// work-order creation.
var ticketTransitions = map[model.TicketStatus][]model.TicketStatus{
	model.TicketStatusRejected:   {model.TicketStatusOpen},
	model.TicketStatusInProgress: {model.TicketStatusAccepted, model.TicketStatusReturnNeeded},
	model.TicketStatusCompleted:  {model.TicketStatusInProgress, model.TicketStatusReturnNeeded},
}

func (s *TicketService) Reject(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, principal, ticketID, model.TicketStatusRejected)
}

func (s *TicketService) Start(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, principal, ticketID, model.TicketStatusInProgress)
}

func (s *TicketService) Complete(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, principal, ticketID, model.TicketStatusCompleted)
}

func (s *TicketService) Get(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsRoot() {
		return ticket, nil
	}
	if principal.IsVendor() {
		if !ticket.Marketplace && (ticket.VendorID == nil || *ticket.VendorID != principal.OrgID) {
			return nil, ErrPermissionDenied
		}
		return ticket, nil
	}
	if ticket.OrgID != principal.OrgID {
		return nil, ErrPermissionDenied
	}
	return ticket, nil
}

func (s *TicketService) transition(ctx context.Context, principal model.Principal, ticketID uuid.UUID, next model.TicketStatus) (*model.Ticket, error) {
	ticket, err := s.getActor(ctx, principal, ticketID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, from := range ticketTransitions[next] {
		if ticket.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: ticket cannot move from %s to %s", ErrInvalidInput, ticket.Status, next)
	}

	if err := s.tickets.UpdateStatus(ctx, ticketID, next); err != nil {
		return nil, err
	}
	return s.tickets.Get(ctx, ticketID)
}

// getOwned restricts to the owning organization (or root).
func (s *TicketService) getOwned(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsRoot() && ticket.OrgID != principal.OrgID {
		return nil, ErrPermissionDenied
	}
	return ticket, nil
}

// getActor additionally admits the assigned vendor, which drives start and
// complete for awarded marketplace work.
func (s *TicketService) getActor(ctx context.Context, principal model.Principal, ticketID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsRoot() {
		return ticket, nil
	}
	if principal.IsVendor() {
		if ticket.VendorID != nil && *ticket.VendorID == principal.OrgID {
			return ticket, nil
		}
		return nil, ErrPermissionDenied
	}
	if ticket.OrgID != principal.OrgID {
		return nil, ErrPermissionDenied
	}
	return ticket, nil
}
