package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketBidGroup is one ticket's full bid version chain for a vendor,
// oldest version first.
type TicketBidGroup struct {
	TicketID    uuid.UUID
	TicketTitle string
	Versions    []Bid
}

// VendorBidReport feeds the bid-activity spreadsheet export.
type VendorBidReport struct {
	Vendor      Organization
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalBids   int64
	StatusCounts map[BidStatus]int64
	Tickets     []TicketBidGroup
}
