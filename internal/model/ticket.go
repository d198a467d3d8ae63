package model

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusAccepted     TicketStatus = "accepted"
	TicketStatusInProgress   TicketStatus = "in_progress"
	TicketStatusReturnNeeded TicketStatus = "return_needed"
	TicketStatusCompleted    TicketStatus = "completed"
	TicketStatusRejected     TicketStatus = "rejected"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// AssignmentMode is how an accepted ticket gets an executor: directly to a
// vendor, directly to a technician, or opened to marketplace bidding. The
// three modes are mutually exclusive.
type AssignmentMode string

const (
	AssignVendor      AssignmentMode = "vendor"
	AssignTechnician  AssignmentMode = "technician"
	AssignMarketplace AssignmentMode = "marketplace"
)

type Ticket struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	Title         string
	Description   string
	Priority      TicketPriority
	Status        TicketStatus
	VendorID      *uuid.UUID
	AssigneeID    *uuid.UUID
	Marketplace   bool
	CreatedByID   uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assigned reports whether the ticket already has a direct executor.
func (t Ticket) Assigned() bool {
	return t.VendorID != nil || t.AssigneeID != nil
}

func (t Ticket) Terminal() bool {
	return t.Status == TicketStatusCompleted || t.Status == TicketStatusRejected
}

// ProposedSchedule is an optional technician booking attached at assignment
// time. End must be after Start; overlap with existing calendar events is an
// advisory check, not a hard lock.
type ProposedSchedule struct {
	Start time.Time
	End   time.Time
}

type CalendarEvent struct {
	ID           uuid.UUID
	TechnicianID uuid.UUID
	TicketID     *uuid.UUID
	Title        string
	StartAt      time.Time
	EndAt        time.Time
	CreatedAt    time.Time
}
