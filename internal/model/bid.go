package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
	BidStatusCounter  BidStatus = "counter"
)

// Bid is one immutable version of a vendor's offer on a marketplace ticket.
// Updates never mutate a version in place: the prior version is marked
// superseded and a fresh row is inserted with Version+1 and PreviousBidID
// pointing back. For a (ticket, vendor) pair at most one version has
// IsSuperseded == false.
type Bid struct {
	ID               uuid.UUID
	TicketID         uuid.UUID
	VendorID         uuid.UUID
	TotalAmount      decimal.Decimal
	HourlyRate       *decimal.Decimal
	EstimatedHours   *decimal.Decimal
	ResponseTime     string
	AdditionalNotes  string
	Status           BidStatus
	RejectionReason  *string
	CounterOffer     *decimal.Decimal
	CounterNotes     *string
	Version          int
	IsSuperseded     bool
	SupersededByID   *uuid.UUID
	PreviousBidID    *uuid.UUID
	ApprovedByUserID *uuid.UUID
	ApprovedAt       *time.Time
	CreatedAt        time.Time
}

func (b Bid) Terminal() bool {
	return b.Status == BidStatusAccepted || b.Status == BidStatusRejected
}
