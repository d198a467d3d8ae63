package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Part is a vendor catalog item. Cost is the vendor's cost basis; the
// selling price is derived from cost, markup and the rounding flag and is
// never stored.
type Part struct {
	ID                uuid.UUID
	VendorID          uuid.UUID
	Name              string
	Description       string
	Cost              decimal.Decimal
	MarkupPercentage  decimal.Decimal
	RoundToNinetyNine bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PartPriceHistory is an append-only log entry written on every mutation of
// a part's pricing fields. Entries are never edited or deleted.
type PartPriceHistory struct {
	ID                uuid.UUID
	PartID            uuid.UUID
	OldCost           decimal.Decimal
	NewCost           decimal.Decimal
	MarkupPercentage  decimal.Decimal
	RoundToNinetyNine bool
	ChangedByUserID   uuid.UUID
	CreatedAt         time.Time
}
